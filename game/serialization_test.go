package game_test

import (
	"bytes"
	"testing"

	"github.com/antiphoton/postflop-solver/game"
	"github.com/antiphoton/postflop-solver/tree"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, g *game.Game) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, g.Encode(buf))
	return buf.Bytes()
}

func decode(t *testing.T, data []byte) *game.Game {
	t.Helper()
	g, err := game.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return g
}

func requireSameNodes(t *testing.T, a, b *game.Game) {
	t.Helper()
	require.Equal(t, a.NumNodes(), b.NumNodes())
	for i := 0; i < a.NumNodes(); i++ {
		require.Equal(t, a.Node(i), b.Node(i), "node %d", i)
	}
}

func TestRoundTrip(t *testing.T) {
	g := builtGame(t, riverTreeConfig(), riverCardConfig())

	n := g.Node(0)
	strategy := make([]float32, n.NumElements)
	regrets := make([]float32, n.NumElements)
	ip := make([]float32, n.NumElementsIP)
	for i := range strategy {
		strategy[i] = float32(i) * 0.5
		regrets[i] = -float32(i)
	}
	for i := range ip {
		ip[i] = float32(i) * 2
	}
	require.NoError(t, g.SetStrategy(0, strategy))
	require.NoError(t, g.SetRegrets(0, regrets))
	require.NoError(t, g.SetIPValues(0, ip))
	require.NoError(t, g.LockNode(0, strategy))
	require.NoError(t, g.ApplyHistory([]int{1, 2}))
	require.NoError(t, g.CacheNormalizedWeights())

	d := decode(t, encode(t, g))

	require.Equal(t, g.State(), d.State())
	require.Equal(t, g.Config(), d.Config())
	require.Equal(t, g.CardConfig(), d.CardConfig())
	require.Equal(t, g.NumCombinations(), d.NumCombinations())
	requireSameNodes(t, g, d)

	gotStrategy, err := d.Strategy(0)
	require.NoError(t, err)
	require.Equal(t, strategy, gotStrategy)
	gotRegrets, err := d.Regrets(0)
	require.NoError(t, err)
	require.Equal(t, regrets, gotRegrets)
	gotIP, err := d.IPValues(0)
	require.NoError(t, err)
	require.Equal(t, ip, gotIP)

	require.True(t, d.Node(0).IsLocked)
	locked, ok := d.LockedStrategy(0)
	require.True(t, ok)
	require.Equal(t, strategy, locked)

	require.Equal(t, g.History(), d.History())
	require.Equal(t, g.CurrentNode(), d.CurrentNode())
	require.True(t, d.NormalizedWeightsCached())
	require.Equal(t, g.NormalizedWeights(0), d.NormalizedWeights(0))
}

func TestRoundTripEditedTree(t *testing.T) {
	at, err := tree.NewActionTree(riverTreeConfig())
	require.NoError(t, err)
	require.NoError(t, at.AddLine([]tree.Action{{Kind: tree.ActionBet, Amount: 30}}))
	require.NoError(t, at.AddLine([]tree.Action{
		{Kind: tree.ActionCheck},
		{Kind: tree.ActionBet, Amount: 75},
	}))
	require.NoError(t, at.RemoveLine([]tree.Action{{Kind: tree.ActionBet, Amount: 50}}))

	g, err := game.NewGame(riverCardConfig(), at)
	require.NoError(t, err)
	require.NoError(t, g.AllocateMemory())
	require.NoError(t, g.BuildTree())

	d := decode(t, encode(t, g))

	// The tree is rebuilt from config plus edit log, not read from the
	// stream; the derived node sequence must still match exactly.
	require.Equal(t, g.AddedLines(), d.AddedLines())
	require.Equal(t, g.RemovedLines(), d.RemovedLines())
	requireSameNodes(t, g, d)
}

func TestEmptyBetSizeListNormalization(t *testing.T) {
	tc := riverTreeConfig()
	tc.FlopBetSizes = [2][]float32{{}, {}}
	at, err := tree.NewActionTree(tc)
	require.NoError(t, err)
	g, err := game.NewGame(riverCardConfig(), at)
	require.NoError(t, err)
	require.NoError(t, g.AllocateMemory())
	require.NoError(t, g.BuildTree())

	// Empty and absent size lists share a wire representation; zero length
	// decodes to nil. The rebuilt tree is unaffected either way.
	d := decode(t, encode(t, g))
	require.Nil(t, d.Config().FlopBetSizes[0])
	require.Empty(t, g.Config().FlopBetSizes[0])
	require.Empty(t, d.Config().FlopBetSizes[0])
	requireSameNodes(t, g, d)
}

func TestRoundTripCompressed(t *testing.T) {
	raw := builtGame(t, flopTreeConfig(), flopCardConfig())
	g := builtGame(t, flopTreeConfig(), flopCardConfig(), game.WithCompression())
	require.True(t, g.CompressionEnabled())

	chance := -1
	for i := 0; i < g.NumNodes(); i++ {
		n := g.Node(i)
		if n.IsChance() {
			chance = i
			break
		}
	}
	require.GreaterOrEqual(t, chance, 0)
	vals := make([]float32, g.Node(chance).NumElementsChance)
	for i := range vals {
		vals[i] = float32(i) * 0.125
	}
	require.NoError(t, g.SetChanceValues(chance, vals))

	compressed := encode(t, g)
	uncompressed := encode(t, raw)
	require.Less(t, len(compressed), len(uncompressed))

	d := decode(t, compressed)
	require.True(t, d.CompressionEnabled())
	requireSameNodes(t, g, d)
	got, err := d.ChanceValues(chance)
	require.NoError(t, err)
	require.Equal(t, vals, got)
}

func TestRoundTripUninitialized(t *testing.T) {
	at, err := tree.NewActionTree(riverTreeConfig())
	require.NoError(t, err)
	g, err := game.NewGame(riverCardConfig(), at)
	require.NoError(t, err)

	d := decode(t, encode(t, g))
	require.Equal(t, game.Uninitialized, d.State())
	require.Equal(t, 0, d.NumNodes())
	require.Equal(t, g.Config(), d.Config())
	require.Equal(t, g.CardConfig(), d.CardConfig())

	// The decoded instance can proceed through its lifecycle normally.
	require.NoError(t, d.AllocateMemory())
	require.NoError(t, d.BuildTree())
	require.Positive(t, d.NumNodes())
}

func TestRoundTripMemoryAllocated(t *testing.T) {
	at, err := tree.NewActionTree(riverTreeConfig())
	require.NoError(t, err)
	g, err := game.NewGame(riverCardConfig(), at)
	require.NoError(t, err)
	require.NoError(t, g.AllocateMemory())

	d := decode(t, encode(t, g))
	require.Equal(t, game.MemoryAllocated, d.State())
	p1, i1, c1 := g.StorageCounts()
	p2, i2, c2 := d.StorageCounts()
	require.Equal(t, p1, p2)
	require.Equal(t, i1, i2)
	require.Equal(t, c1, c2)

	_, err = d.Strategy(0)
	require.ErrorIs(t, err, game.ErrTreeNotBuilt)

	require.NoError(t, d.BuildTree())
	require.Positive(t, d.NumNodes())
}

func TestVersionMismatch(t *testing.T) {
	g := builtGame(t, riverTreeConfig(), riverCardConfig())
	data := encode(t, g)

	// The version tag starts right after its length prefix. Any textual
	// difference is total incompatibility.
	data[4] ^= 0xff
	_, err := game.Decode(bytes.NewReader(data))
	require.ErrorIs(t, err, game.VersionMismatchError{})
}

func TestTruncatedStream(t *testing.T) {
	g := builtGame(t, riverTreeConfig(), riverCardConfig())
	data := encode(t, g)
	for _, cut := range []int{0, 1, 3, len(data) / 2, len(data) - 1} {
		_, err := game.Decode(bytes.NewReader(data[:cut]))
		require.Error(t, err)
		if cut > 16 {
			require.ErrorIs(t, err, game.MalformedStreamError{})
		}
	}
}

func TestGarbageStream(t *testing.T) {
	_, err := game.Decode(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0x00}))
	require.Error(t, err)
}

func TestEncodeDeterminism(t *testing.T) {
	g := builtGame(t, riverTreeConfig(), riverCardConfig())
	require.NoError(t, g.LockNode(0, make([]float32, g.Node(0).NumElements)))
	require.Equal(t, encode(t, g), encode(t, g))
}

func TestRepeatedRoundTrip(t *testing.T) {
	g := builtGame(t, riverTreeConfig(), riverCardConfig())
	require.NoError(t, g.ApplyHistory([]int{0}))
	first := encode(t, g)
	second := encode(t, decode(t, first))
	require.Equal(t, first, second)
}
