package game

import (
	"fmt"
	"slices"

	"github.com/antiphoton/postflop-solver/tree"
)

/*
Game is a heads-up postflop solver instance. It exclusively owns the four
storage arenas and the node sequence; nodes reference arena sub-ranges but
never own them. The tree shape is always a deterministic function of the
tree config plus the edit log, which is what makes the snapshot format
relocatable: shape is rebuilt, never transferred.

The two primary arenas are kept structurally isomorphic: every decision
node's offset into primary-A equals its offset into primary-B. Allocation
computes one layout and applies it to both, and the arenas are only ever
sized together, so the invariant holds by construction. The snapshot codec
relies on it to persist a single shared offset per decision node.
*/

////////////////////////////////////////////////////////////////////////////////

// nodeMemSize approximates the in-memory footprint of one node, for the
// misc accounting carried in snapshots.
const nodeMemSize = 96

type Game struct {
	state State

	treeConfig   tree.TreeConfig
	addedLines   [][]tree.Action
	removedLines [][]tree.Action
	treeRoot     *tree.TreeNode

	cardConfig           CardConfig
	numCombinations      float64
	isCompressionEnabled bool

	numStorageActions uint64
	numStorageIP      uint64
	numStorageChances uint64
	miscMemoryUsage   uint64

	primaryA *Arena
	primaryB *Arena
	inPos    *Arena
	chance   *Arena

	lockingStrategy map[uint32][]float32

	nodes []Node

	// derived, valid from TreeBuilt
	handsOOP                 []hand
	handsIP                  []hand
	possibleCards            uint64
	currentNode              int
	history                  []int
	isNormalizedWeightCached bool
	normalizedWeights        [2][]float32
}

type config struct {
	compression bool
}

// Option configures a Game at construction.
type Option func(*config)

// WithCompression enables zstd compression of the arena payloads in
// snapshots written by this instance.
func WithCompression() Option {
	return func(c *config) {
		c.compression = true
	}
}

// NewGame creates a solver instance from a card config and a built (and
// possibly edited) action tree. The tree is ejected; it should not be
// edited afterward.
func NewGame(cardConfig CardConfig, actionTree *tree.ActionTree, opts ...Option) (*Game, error) {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if err := cardConfig.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate card config: %w", err)
	}
	treeConfig, added, removed, root := actionTree.Eject()
	if err := checkStreets(&treeConfig, &cardConfig); err != nil {
		return nil, err
	}
	board := cardConfig.boardMask()
	oop := rangeHands(cardConfig.RangeOOP, board)
	ip := rangeHands(cardConfig.RangeIP, board)
	if len(oop) == 0 || len(ip) == 0 {
		return nil, fmt.Errorf("empty playable range")
	}
	return &Game{
		state:                Uninitialized,
		treeConfig:           treeConfig,
		addedLines:           added,
		removedLines:         removed,
		treeRoot:             root,
		cardConfig:           cardConfig,
		numCombinations:      countCombinations(oop, ip),
		isCompressionEnabled: c.compression,
		primaryA:             newArena(0),
		primaryB:             newArena(0),
		inPos:                newArena(0),
		chance:               newArena(0),
		lockingStrategy:      map[uint32][]float32{},
	}, nil
}

// checkStreets verifies the known board cards match the initial street.
func checkStreets(tc *tree.TreeConfig, cc *CardConfig) error {
	wantTurn := tc.InitialStreet >= tree.Turn
	wantRiver := tc.InitialStreet >= tree.River
	if wantTurn != (cc.Turn != CardNone) || wantRiver != (cc.River != CardNone) {
		return fmt.Errorf("board cards do not match initial street %s", tc.InitialStreet)
	}
	return nil
}

// AllocateMemory sizes the four storage arenas from the tree's layout and
// advances the instance to MemoryAllocated. The primary pair is sized with
// a single layout, establishing the mirrored-offset invariant.
func (g *Game) AllocateMemory() error {
	if g.state != Uninitialized {
		return fmt.Errorf("failed to allocate: %w (state %s)", ErrWrongState, g.state)
	}
	_, lay := g.buildNodes()

	g.primaryA = newArena(lay.primaryElems)
	g.primaryB = newArena(lay.primaryElems)
	g.inPos = newArena(lay.ipElems)
	g.chance = newArena(lay.chanceElems)

	g.numStorageActions = lay.primaryElems
	g.numStorageIP = lay.ipElems
	g.numStorageChances = lay.chanceElems
	g.miscMemoryUsage = lay.nodeCount * nodeMemSize

	g.state = MemoryAllocated
	return nil
}

// BuildTree materializes the node sequence and the derived hand and card
// structures, advancing the instance to TreeBuilt.
func (g *Game) BuildTree() error {
	if g.state != MemoryAllocated {
		return fmt.Errorf("failed to build tree: %w (state %s)", ErrWrongState, g.state)
	}
	g.nodes, _ = g.buildNodes()
	g.initHands()
	g.initCardFields()
	g.initInterpreter()
	g.state = TreeBuilt
	return nil
}

// layout is the storage footprint of a node sequence, in elements.
type layout struct {
	primaryElems uint64
	ipElems      uint64
	chanceElems  uint64
	nodeCount    uint64
}

// buildNodes flattens the action tree into the node sequence, expanding
// chance nodes per candidate card, assigning contiguous children ranges
// and storage offsets in one deterministic breadth-first pass. Offsets are
// assigned in visit order, so two instances with equal config, edit log
// and ranges produce identical sequences.
func (g *Game) buildNodes() ([]Node, layout) {
	board := g.cardConfig.boardMask()
	nOOP := uint32(len(rangeHands(g.cardConfig.RangeOOP, board)))
	nIP := uint32(len(rangeHands(g.cardConfig.RangeIP, board)))
	handsOf := func(player uint8) uint32 {
		if player == tree.PlayerOOP {
			return nOOP
		}
		return nIP
	}

	type ent struct {
		tn         *tree.TreeNode
		turn       uint8
		river      uint8
		prevAction tree.Action
	}

	var lay layout
	makeNode := func(e ent) Node {
		n := Node{
			PrevAction: e.prevAction,
			Player:     e.tn.Player,
			Turn:       e.turn,
			River:      e.river,
			Amount:     e.tn.Amount,
			Scale1:     1,
			Scale2:     1,
			Scale3:     1,
			Storage1:   NoStorage,
			Storage2:   NoStorage,
			Storage3:   NoStorage,
		}
		switch {
		case e.tn.IsTerminal():
			// owns no storage
		case e.tn.IsChance():
			n.NumElementsChance = nOOP + nIP
			n.Storage1 = StorageRef(lay.chanceElems)
			lay.chanceElems += uint64(n.NumElementsChance)
		default:
			n.NumElements = uint32(len(e.tn.Actions)) * handsOf(e.tn.Player)
			n.NumElementsIP = nIP
			n.Storage1 = StorageRef(lay.primaryElems)
			n.Storage2 = n.Storage1
			n.Storage3 = StorageRef(lay.ipElems)
			lay.primaryElems += uint64(n.NumElements)
			lay.ipElems += uint64(n.NumElementsIP)
		}
		return n
	}

	ents := []ent{{tn: g.treeRoot, turn: g.cardConfig.Turn, river: g.cardConfig.River}}
	nodes := []Node{makeNode(ents[0])}
	for head := 0; head < len(ents); head++ {
		e := ents[head]
		var children []ent
		switch {
		case e.tn.IsTerminal():
		case e.tn.IsChance():
			used := board
			if e.turn != CardNone {
				used |= 1 << e.turn
			}
			for c := uint8(0); c < 52; c++ {
				if used&(1<<c) != 0 {
					continue
				}
				child := ent{
					tn:         e.tn.Children[0],
					turn:       e.turn,
					river:      e.river,
					prevAction: tree.Action{Kind: tree.ActionChance, Amount: int32(c)},
				}
				if e.turn == CardNone {
					child.turn = c
				} else {
					child.river = c
				}
				children = append(children, child)
			}
		default:
			for i, a := range e.tn.Actions {
				children = append(children, ent{
					tn:         e.tn.Children[i],
					turn:       e.turn,
					river:      e.river,
					prevAction: a,
				})
			}
		}
		nodes[head].ChildrenStart = uint32(len(nodes))
		nodes[head].NumChildren = uint32(len(children))
		for _, child := range children {
			nodes = append(nodes, makeNode(child))
			ents = append(ents, child)
		}
	}
	lay.nodeCount = uint64(len(nodes))
	return nodes, lay
}

// State returns the lifecycle stage.
func (g *Game) State() State {
	return g.state
}

// Config returns the tree config.
func (g *Game) Config() tree.TreeConfig {
	return g.treeConfig
}

// CardConfig returns the card config.
func (g *Game) CardConfig() CardConfig {
	return g.cardConfig
}

// AddedLines returns the edit log's added lines, in application order.
func (g *Game) AddedLines() [][]tree.Action {
	return g.addedLines
}

// RemovedLines returns the edit log's removed lines, in application order.
func (g *Game) RemovedLines() [][]tree.Action {
	return g.removedLines
}

// NumNodes returns the length of the node sequence.
func (g *Game) NumNodes() int {
	return len(g.nodes)
}

// Node returns a copy of node i.
func (g *Game) Node(i int) Node {
	return g.nodes[i]
}

// NumCombinations returns the weighted matchup count of the two ranges.
func (g *Game) NumCombinations() float64 {
	return g.numCombinations
}

// CompressionEnabled reports whether snapshots compress arena payloads.
func (g *Game) CompressionEnabled() bool {
	return g.isCompressionEnabled
}

// SetCompression toggles arena payload compression for subsequent encodes.
func (g *Game) SetCompression(enabled bool) {
	g.isCompressionEnabled = enabled
}

// StorageCounts returns the per-category arena element counts.
func (g *Game) StorageCounts() (primary, ip, chance uint64) {
	return g.numStorageActions, g.numStorageIP, g.numStorageChances
}

func (g *Game) decisionNode(i int) (*Node, error) {
	if g.state < TreeBuilt {
		return nil, ErrTreeNotBuilt
	}
	n := &g.nodes[i]
	if n.IsTerminal() || n.IsChance() {
		return nil, fmt.Errorf("node %d is not a decision node", i)
	}
	if !n.Storage1.Present() {
		return nil, ErrNotAllocated
	}
	return n, nil
}

// Strategy returns a copy of node i's strategy values (primary-A).
func (g *Game) Strategy(i int) ([]float32, error) {
	n, err := g.decisionNode(i)
	if err != nil {
		return nil, err
	}
	return g.primaryA.readF32(n.Storage1, n.NumElements), nil
}

// SetStrategy stores node i's strategy values (primary-A).
func (g *Game) SetStrategy(i int, vals []float32) error {
	n, err := g.decisionNode(i)
	if err != nil {
		return err
	}
	if uint32(len(vals)) != n.NumElements {
		return fmt.Errorf("expected %d values, got %d", n.NumElements, len(vals))
	}
	g.primaryA.writeF32(n.Storage1, vals)
	return nil
}

// Regrets returns a copy of node i's regret values (primary-B).
func (g *Game) Regrets(i int) ([]float32, error) {
	n, err := g.decisionNode(i)
	if err != nil {
		return nil, err
	}
	return g.primaryB.readF32(n.Storage2, n.NumElements), nil
}

// SetRegrets stores node i's regret values (primary-B).
func (g *Game) SetRegrets(i int, vals []float32) error {
	n, err := g.decisionNode(i)
	if err != nil {
		return err
	}
	if uint32(len(vals)) != n.NumElements {
		return fmt.Errorf("expected %d values, got %d", n.NumElements, len(vals))
	}
	g.primaryB.writeF32(n.Storage2, vals)
	return nil
}

// IPValues returns a copy of node i's in-position values.
func (g *Game) IPValues(i int) ([]float32, error) {
	n, err := g.decisionNode(i)
	if err != nil {
		return nil, err
	}
	return g.inPos.readF32(n.Storage3, n.NumElementsIP), nil
}

// SetIPValues stores node i's in-position values.
func (g *Game) SetIPValues(i int, vals []float32) error {
	n, err := g.decisionNode(i)
	if err != nil {
		return err
	}
	if uint32(len(vals)) != n.NumElementsIP {
		return fmt.Errorf("expected %d values, got %d", n.NumElementsIP, len(vals))
	}
	g.inPos.writeF32(n.Storage3, vals)
	return nil
}

// ChanceValues returns a copy of chance node i's values.
func (g *Game) ChanceValues(i int) ([]float32, error) {
	if g.state < TreeBuilt {
		return nil, ErrTreeNotBuilt
	}
	n := &g.nodes[i]
	if !n.IsChance() {
		return nil, fmt.Errorf("node %d is not a chance node", i)
	}
	if !n.Storage1.Present() {
		return nil, ErrNotAllocated
	}
	return g.chance.readF32(n.Storage1, n.NumElementsChance), nil
}

// SetChanceValues stores chance node i's values.
func (g *Game) SetChanceValues(i int, vals []float32) error {
	if g.state < TreeBuilt {
		return ErrTreeNotBuilt
	}
	n := &g.nodes[i]
	if !n.IsChance() {
		return fmt.Errorf("node %d is not a chance node", i)
	}
	if !n.Storage1.Present() {
		return ErrNotAllocated
	}
	if uint32(len(vals)) != n.NumElementsChance {
		return fmt.Errorf("expected %d values, got %d", n.NumElementsChance, len(vals))
	}
	g.chance.writeF32(n.Storage1, vals)
	return nil
}

// LockNode pins a strategy for node i and records it in the locking
// record.
func (g *Game) LockNode(i int, strategy []float32) error {
	n, err := g.decisionNode(i)
	if err != nil {
		return err
	}
	if uint32(len(strategy)) != n.NumElements {
		return fmt.Errorf("expected %d values, got %d", n.NumElements, len(strategy))
	}
	n.IsLocked = true
	g.lockingStrategy[uint32(i)] = slices.Clone(strategy)
	return nil
}

// LockedStrategy returns the locked strategy for node i, if any.
func (g *Game) LockedStrategy(i int) ([]float32, bool) {
	s, ok := g.lockingStrategy[uint32(i)]
	return s, ok
}
