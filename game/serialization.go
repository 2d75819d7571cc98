package game

import (
	"fmt"
	"io"
	"slices"

	"github.com/antiphoton/postflop-solver/tree"
	"github.com/antiphoton/postflop-solver/util"
)

/*
The snapshot format serializes a complete solver instance into a compact,
relocatable byte stream. Field order (encode and decode must match
exactly):

    Version tag: length-prefixed string, compared for exact equality
    Tree config
    Added lines, removed lines
    State: 1 byte
    Card config
    Combination count: 8 bytes
    Compression flag: 1 byte
    Storage element counts (primary, in-position, chance): 8 bytes each
    Misc memory accounting: 8 bytes
    The four storage arenas, in full (zstd frames when compressed)
    Locking record
    Traversal history
    Normalized-weight-cache flag: 1 byte
    Node sequence

Tree shape is never read from the stream: decode rebuilds the action tree
from the config plus the edit log, which reproduces the encode-time tree
exactly. Node storage references are persisted as relative element offsets
and rebound to the freshly materialized arenas through a rebaseContext; the
primary-B offset is never written, it is reconstructed from the shared
primary offset via the mirrored-arena invariant.
*/

////////////////////////////////////////////////////////////////////////////////

// VersionString is the snapshot format version tag. Any textual difference
// is total incompatibility.
const VersionString = "2024-08-01"

// nodeScalarSize is the encoded size of a node's unconditional scalars.
const nodeScalarSize = 45

// Encode serializes the instance to w. The instance must not be mutated
// concurrently; a torn snapshot is the caller's to avoid.
func (g *Game) Encode(w io.Writer) error {
	rc, err := newRebaseContext(g)
	if err != nil {
		return err
	}
	if err := util.EncodePrefixedString(w, VersionString); err != nil {
		return err
	}
	if err := encodeTreeConfig(w, &g.treeConfig); err != nil {
		return err
	}
	if err := encodeLines(w, g.addedLines); err != nil {
		return err
	}
	if err := encodeLines(w, g.removedLines); err != nil {
		return err
	}
	if err := util.EncodeU8(w, uint8(g.state)); err != nil {
		return err
	}
	if err := encodeCardConfig(w, &g.cardConfig); err != nil {
		return err
	}
	if err := util.EncodeF64(w, g.numCombinations); err != nil {
		return err
	}
	if err := util.EncodeBool(w, g.isCompressionEnabled); err != nil {
		return err
	}
	for _, count := range []uint64{g.numStorageActions, g.numStorageIP, g.numStorageChances} {
		if err := util.EncodeU64(w, count); err != nil {
			return err
		}
	}
	if err := util.EncodeU64(w, g.miscMemoryUsage); err != nil {
		return err
	}
	for _, arena := range []*Arena{g.primaryA, g.primaryB, g.inPos, g.chance} {
		if err := g.encodeArena(w, arena); err != nil {
			return err
		}
	}
	if err := encodeLocking(w, g.lockingStrategy); err != nil {
		return err
	}
	if err := encodeHistory(w, g.history); err != nil {
		return err
	}
	if err := util.EncodeBool(w, g.isNormalizedWeightCached); err != nil {
		return err
	}
	if err := util.EncodeU32(w, uint32(len(g.nodes))); err != nil {
		return err
	}
	for i := range g.nodes {
		if err := encodeNode(w, &g.nodes[i], rc); err != nil {
			return err
		}
	}
	return nil
}

// Decode reconstructs an instance from r. On any failure no instance is
// returned; there is no partial or best-effort result.
func Decode(r io.Reader) (*Game, error) {
	version, err := util.DecodePrefixedString(r)
	if err != nil {
		return nil, MalformedStreamError{err}
	}
	if version != VersionString {
		return nil, VersionMismatchError{Expected: VersionString, Got: version}
	}

	treeConfig, err := decodeTreeConfig(r)
	if err != nil {
		return nil, MalformedStreamError{err}
	}
	addedLines, err := decodeLines(r)
	if err != nil {
		return nil, MalformedStreamError{err}
	}
	removedLines, err := decodeLines(r)
	if err != nil {
		return nil, MalformedStreamError{err}
	}

	// Rebuild the action tree from config and edit log. Shape is never
	// transferred through the stream.
	actionTree, err := tree.NewActionTree(treeConfig)
	if err != nil {
		return nil, MalformedStreamError{fmt.Errorf("failed to rebuild tree: %w", err)}
	}
	for _, line := range addedLines {
		if err := actionTree.AddLine(line); err != nil {
			return nil, MalformedStreamError{fmt.Errorf("inconsistent edit replay: %w", err)}
		}
	}
	for _, line := range removedLines {
		if err := actionTree.RemoveLine(line); err != nil {
			return nil, MalformedStreamError{fmt.Errorf("inconsistent edit replay: %w", err)}
		}
	}
	_, _, _, root := actionTree.Eject()

	g := &Game{
		treeConfig:      treeConfig,
		addedLines:      addedLines,
		removedLines:    removedLines,
		treeRoot:        root,
		lockingStrategy: map[uint32][]float32{},
	}

	state, err := util.DecodeU8(r)
	if err != nil {
		return nil, MalformedStreamError{err}
	}
	if State(state) > Solved {
		return nil, MalformedStreamError{fmt.Errorf("invalid state: %d", state)}
	}
	g.state = State(state)

	cardConfig, err := decodeCardConfig(r)
	if err != nil {
		return nil, MalformedStreamError{err}
	}
	if err := cardConfig.Validate(); err != nil {
		return nil, MalformedStreamError{err}
	}
	g.cardConfig = cardConfig

	if g.numCombinations, err = util.DecodeF64(r); err != nil {
		return nil, MalformedStreamError{err}
	}
	if g.isCompressionEnabled, err = util.DecodeBool(r); err != nil {
		return nil, MalformedStreamError{err}
	}
	for _, count := range []*uint64{&g.numStorageActions, &g.numStorageIP, &g.numStorageChances} {
		if *count, err = util.DecodeU64(r); err != nil {
			return nil, MalformedStreamError{err}
		}
	}
	if g.miscMemoryUsage, err = util.DecodeU64(r); err != nil {
		return nil, MalformedStreamError{err}
	}

	// Materialize the four arenas at their new addresses.
	arenas := make([]*Arena, 4)
	for i := range arenas {
		arena, err := g.decodeArena(r)
		if err != nil {
			return nil, err
		}
		arenas[i] = arena
	}
	g.primaryA, g.primaryB, g.inPos, g.chance = arenas[0], arenas[1], arenas[2], arenas[3]
	for i, want := range []uint64{g.numStorageActions, g.numStorageActions, g.numStorageIP, g.numStorageChances} {
		if g.state >= MemoryAllocated && arenas[i].Elements() != want {
			return nil, MalformedStreamError{
				fmt.Errorf("arena %d holds %d elements, expected %d", i, arenas[i].Elements(), want),
			}
		}
	}

	if g.lockingStrategy, err = decodeLocking(r); err != nil {
		return nil, MalformedStreamError{err}
	}
	history, err := decodeHistory(r)
	if err != nil {
		return nil, MalformedStreamError{err}
	}
	cached, err := util.DecodeBool(r)
	if err != nil {
		return nil, MalformedStreamError{err}
	}

	// Establish the rebase context from the new arena addresses, then
	// decode the node sequence against it.
	rc, err := newRebaseContext(g)
	if err != nil {
		return nil, MalformedStreamError{err}
	}
	nodeCount, err := util.DecodeU32(r)
	if err != nil {
		return nil, MalformedStreamError{err}
	}
	if g.state >= TreeBuilt {
		if _, lay := g.buildNodes(); lay.nodeCount != uint64(nodeCount) {
			return nil, MalformedStreamError{
				fmt.Errorf("stream holds %d nodes, tree derives %d", nodeCount, lay.nodeCount),
			}
		}
	}
	g.nodes = make([]Node, 0, min(nodeCount, 1<<20))
	for i := uint32(0); i < nodeCount; i++ {
		node, err := decodeNode(r, rc)
		if err != nil {
			return nil, err
		}
		g.nodes = append(g.nodes, node)
	}

	if g.state >= TreeBuilt {
		g.initHands()
		g.initCardFields()
		g.initInterpreter()
		if err := g.ApplyHistory(history); err != nil {
			return nil, MalformedStreamError{err}
		}
		if cached {
			if err := g.CacheNormalizedWeights(); err != nil {
				return nil, MalformedStreamError{err}
			}
		}
	}
	return g, nil
}

// encodeArena writes one arena payload. The live buffer (the session base)
// is captured under the arena's lock; the bulk transfer runs outside it.
func (g *Game) encodeArena(w io.Writer, a *Arena) error {
	raw := a.buf()
	if !g.isCompressionEnabled {
		return util.EncodePrefixedBytes(w, raw)
	}
	payload, err := compressPayload(raw)
	if err != nil {
		return err
	}
	return util.EncodePrefixedBytes(w, payload)
}

// decodeArena materializes one arena from its payload.
func (g *Game) decodeArena(r io.Reader) (*Arena, error) {
	payload, err := util.DecodePrefixedBytes(r)
	if err != nil {
		return nil, MalformedStreamError{err}
	}
	if g.isCompressionEnabled {
		if payload, err = decompressPayload(payload); err != nil {
			return nil, MalformedStreamError{err}
		}
	}
	arena := &Arena{}
	arena.replace(payload)
	return arena, nil
}

// encodeNode writes one node: the scalar block unconditionally, then the
// storage addressing if the node owns storage and is not terminal. Decision
// nodes persist a single primary offset; primary-B shares it.
func encodeNode(w io.Writer, n *Node, _ *rebaseContext) error {
	size := nodeScalarSize
	withStorage := n.Storage1.Present() && !n.IsTerminal()
	if withStorage {
		if n.IsChance() {
			size += 8
		} else {
			size += 16
		}
	}
	buf := make([]byte, size)
	offset := util.U8(buf, uint8(n.PrevAction.Kind))
	offset += util.I32(buf[offset:], n.PrevAction.Amount)
	offset += util.U8(buf[offset:], n.Player)
	offset += util.U8(buf[offset:], n.Turn)
	offset += util.U8(buf[offset:], n.River)
	offset += util.Bool(buf[offset:], n.IsLocked)
	offset += util.I32(buf[offset:], n.Amount)
	offset += util.U32(buf[offset:], n.ChildrenStart)
	offset += util.U32(buf[offset:], n.NumChildren)
	offset += util.U32(buf[offset:], n.NumElements)
	offset += util.U32(buf[offset:], n.NumElementsIP)
	offset += util.U32(buf[offset:], n.NumElementsChance)
	offset += util.F32(buf[offset:], n.Scale1)
	offset += util.F32(buf[offset:], n.Scale2)
	offset += util.F32(buf[offset:], n.Scale3)
	if withStorage {
		if n.IsChance() {
			offset += util.I64(buf[offset:], int64(n.Storage1))
		} else {
			offset += util.I64(buf[offset:], int64(n.Storage1))
			offset += util.I64(buf[offset:], int64(n.Storage3))
		}
	}
	if _, err := w.Write(buf[:offset]); err != nil {
		return fmt.Errorf("failed to write node: %w", err)
	}
	return nil
}

// decodeNode reads one node, rebasing its storage references against the
// live arenas. With absent bases the references stay absent and no offset
// bytes are consumed. A node is never partially populated: any error
// discards it.
func decodeNode(r io.Reader, rc *rebaseContext) (Node, error) {
	var buf [nodeScalarSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Node{}, MalformedStreamError{fmt.Errorf("failed to read node scalars: %w", err)}
	}
	n := Node{
		Storage1: NoStorage,
		Storage2: NoStorage,
		Storage3: NoStorage,
	}
	var kind uint8
	var amount int32
	offset := util.ReadU8(buf[:], &kind)
	offset += util.ReadI32(buf[offset:], &amount)
	n.PrevAction = tree.Action{Kind: tree.ActionKind(kind), Amount: amount}
	offset += util.ReadU8(buf[offset:], &n.Player)
	offset += util.ReadU8(buf[offset:], &n.Turn)
	offset += util.ReadU8(buf[offset:], &n.River)
	offset += util.ReadBool(buf[offset:], &n.IsLocked)
	offset += util.ReadI32(buf[offset:], &n.Amount)
	offset += util.ReadU32(buf[offset:], &n.ChildrenStart)
	offset += util.ReadU32(buf[offset:], &n.NumChildren)
	offset += util.ReadU32(buf[offset:], &n.NumElements)
	offset += util.ReadU32(buf[offset:], &n.NumElementsIP)
	offset += util.ReadU32(buf[offset:], &n.NumElementsChance)
	offset += util.ReadF32(buf[offset:], &n.Scale1)
	offset += util.ReadF32(buf[offset:], &n.Scale2)
	util.ReadF32(buf[offset:], &n.Scale3)

	switch {
	case n.IsTerminal():
		// no addressing bytes
	case n.IsChance():
		if rc.chance == nil {
			return n, nil
		}
		off, err := util.DecodeI64(r)
		if err != nil {
			return Node{}, MalformedStreamError{err}
		}
		if err := checkBounds(rc.chance, off, n.NumElementsChance); err != nil {
			return Node{}, MalformedStreamError{err}
		}
		n.Storage1 = StorageRef(off)
	default:
		if rc.inPos == nil {
			return n, nil
		}
		off, err := util.DecodeI64(r)
		if err != nil {
			return Node{}, MalformedStreamError{err}
		}
		offIP, err := util.DecodeI64(r)
		if err != nil {
			return Node{}, MalformedStreamError{err}
		}
		if err := checkBounds(rc.primaryA, off, n.NumElements); err != nil {
			return Node{}, MalformedStreamError{err}
		}
		if err := checkBounds(rc.primaryB, off, n.NumElements); err != nil {
			return Node{}, MalformedStreamError{err}
		}
		if err := checkBounds(rc.inPos, offIP, n.NumElementsIP); err != nil {
			return Node{}, MalformedStreamError{err}
		}
		// primary-B shares the primary-A offset (mirrored arenas)
		n.Storage1 = StorageRef(off)
		n.Storage2 = StorageRef(off)
		n.Storage3 = StorageRef(offIP)
	}
	return n, nil
}

func encodeTreeConfig(w io.Writer, c *tree.TreeConfig) error {
	if err := util.EncodeU8(w, uint8(c.InitialStreet)); err != nil {
		return err
	}
	if err := util.EncodeI32(w, c.StartingPot); err != nil {
		return err
	}
	if err := util.EncodeI32(w, c.EffectiveStack); err != nil {
		return err
	}
	if err := util.EncodeF64(w, c.RakeRate); err != nil {
		return err
	}
	if err := util.EncodeF64(w, c.RakeCap); err != nil {
		return err
	}
	for street := tree.Flop; street <= tree.River; street++ {
		for player := tree.PlayerOOP; player <= tree.PlayerIP; player++ {
			if err := encodeF32Slice(w, c.BetSizes(player, street)); err != nil {
				return err
			}
		}
	}
	if err := util.EncodeF32(w, c.AddAllInThreshold); err != nil {
		return err
	}
	return util.EncodeF32(w, c.ForceAllInThreshold)
}

func decodeTreeConfig(r io.Reader) (tree.TreeConfig, error) {
	var c tree.TreeConfig
	street, err := util.DecodeU8(r)
	if err != nil {
		return c, err
	}
	c.InitialStreet = tree.Street(street)
	if c.StartingPot, err = util.DecodeI32(r); err != nil {
		return c, err
	}
	if c.EffectiveStack, err = util.DecodeI32(r); err != nil {
		return c, err
	}
	if c.RakeRate, err = util.DecodeF64(r); err != nil {
		return c, err
	}
	if c.RakeCap, err = util.DecodeF64(r); err != nil {
		return c, err
	}
	for _, sizes := range []*[2][]float32{&c.FlopBetSizes, &c.TurnBetSizes, &c.RiverBetSizes} {
		for player := tree.PlayerOOP; player <= tree.PlayerIP; player++ {
			if sizes[player], err = decodeF32Slice(r); err != nil {
				return c, err
			}
		}
	}
	if c.AddAllInThreshold, err = util.DecodeF32(r); err != nil {
		return c, err
	}
	if c.ForceAllInThreshold, err = util.DecodeF32(r); err != nil {
		return c, err
	}
	return c, nil
}

func encodeCardConfig(w io.Writer, c *CardConfig) error {
	if err := encodeF32Slice(w, c.RangeOOP); err != nil {
		return err
	}
	if err := encodeF32Slice(w, c.RangeIP); err != nil {
		return err
	}
	for _, card := range c.Flop {
		if err := util.EncodeU8(w, card); err != nil {
			return err
		}
	}
	if err := util.EncodeU8(w, c.Turn); err != nil {
		return err
	}
	return util.EncodeU8(w, c.River)
}

func decodeCardConfig(r io.Reader) (CardConfig, error) {
	var c CardConfig
	var err error
	if c.RangeOOP, err = decodeF32Slice(r); err != nil {
		return c, err
	}
	if c.RangeIP, err = decodeF32Slice(r); err != nil {
		return c, err
	}
	for i := range c.Flop {
		if c.Flop[i], err = util.DecodeU8(r); err != nil {
			return c, err
		}
	}
	if c.Turn, err = util.DecodeU8(r); err != nil {
		return c, err
	}
	if c.River, err = util.DecodeU8(r); err != nil {
		return c, err
	}
	return c, nil
}

func encodeLines(w io.Writer, lines [][]tree.Action) error {
	if err := util.EncodeU32(w, uint32(len(lines))); err != nil {
		return err
	}
	for _, line := range lines {
		if err := util.EncodeU32(w, uint32(len(line))); err != nil {
			return err
		}
		for _, a := range line {
			if err := util.EncodeU8(w, uint8(a.Kind)); err != nil {
				return err
			}
			if err := util.EncodeI32(w, a.Amount); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeLines(r io.Reader) ([][]tree.Action, error) {
	count, err := util.DecodeU32(r)
	if err != nil {
		return nil, err
	}
	var lines [][]tree.Action
	for i := uint32(0); i < count; i++ {
		length, err := util.DecodeU32(r)
		if err != nil {
			return nil, err
		}
		line := make([]tree.Action, length)
		for j := range line {
			kind, err := util.DecodeU8(r)
			if err != nil {
				return nil, err
			}
			amount, err := util.DecodeI32(r)
			if err != nil {
				return nil, err
			}
			line[j] = tree.Action{Kind: tree.ActionKind(kind), Amount: amount}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// encodeLocking writes the locking record in ascending node order so the
// stream is deterministic.
func encodeLocking(w io.Writer, locking map[uint32][]float32) error {
	if err := util.EncodeU32(w, uint32(len(locking))); err != nil {
		return err
	}
	keys := make([]uint32, 0, len(locking))
	for k := range locking {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := util.EncodeU32(w, k); err != nil {
			return err
		}
		if err := encodeF32Slice(w, locking[k]); err != nil {
			return err
		}
	}
	return nil
}

func decodeLocking(r io.Reader) (map[uint32][]float32, error) {
	count, err := util.DecodeU32(r)
	if err != nil {
		return nil, err
	}
	locking := make(map[uint32][]float32, count)
	for i := uint32(0); i < count; i++ {
		key, err := util.DecodeU32(r)
		if err != nil {
			return nil, err
		}
		vals, err := decodeF32Slice(r)
		if err != nil {
			return nil, err
		}
		locking[key] = vals
	}
	return locking, nil
}

func encodeHistory(w io.Writer, history []int) error {
	if err := util.EncodeU32(w, uint32(len(history))); err != nil {
		return err
	}
	for _, idx := range history {
		if err := util.EncodeU32(w, uint32(idx)); err != nil {
			return err
		}
	}
	return nil
}

func decodeHistory(r io.Reader) ([]int, error) {
	count, err := util.DecodeU32(r)
	if err != nil {
		return nil, err
	}
	history := make([]int, count)
	for i := range history {
		idx, err := util.DecodeU32(r)
		if err != nil {
			return nil, err
		}
		history[i] = int(idx)
	}
	return history, nil
}

func encodeF32Slice(w io.Writer, vals []float32) error {
	if err := util.EncodeU32(w, uint32(len(vals))); err != nil {
		return err
	}
	for _, v := range vals {
		if err := util.EncodeF32(w, v); err != nil {
			return err
		}
	}
	return nil
}

// decodeF32Slice reads a length-prefixed float32 slice. The wire format
// does not distinguish an empty slice from an absent one; zero length
// always decodes to nil.
func decodeF32Slice(r io.Reader) ([]float32, error) {
	count, err := util.DecodeU32(r)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	vals := make([]float32, count)
	for i := range vals {
		if vals[i], err = util.DecodeF32(r); err != nil {
			return nil, err
		}
	}
	return vals, nil
}
