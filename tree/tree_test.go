package tree_test

import (
	"errors"
	"testing"

	"github.com/antiphoton/postflop-solver/tree"
	"github.com/stretchr/testify/require"
)

func riverConfig() tree.TreeConfig {
	return tree.TreeConfig{
		InitialStreet:  tree.River,
		StartingPot:    100,
		EffectiveStack: 100,
		RiverBetSizes:  [2][]float32{{0.5}, {0.5}},
	}
}

func TestNewActionTree(t *testing.T) {
	at, err := tree.NewActionTree(riverConfig())
	require.NoError(t, err)
	root := at.Root()
	require.Equal(t, []tree.Action{
		{Kind: tree.ActionCheck},
		{Kind: tree.ActionBet, Amount: 50},
	}, root.Actions)

	// Facing the bet: fold, call, and a raise forced up to all-in.
	facing := root.Children[1]
	require.Equal(t, []tree.Action{
		{Kind: tree.ActionFold},
		{Kind: tree.ActionCall, Amount: 50},
		{Kind: tree.ActionAllIn, Amount: 100},
	}, facing.Actions)

	// Facing the all-in: fold or call only.
	jammed := facing.Children[2]
	require.Equal(t, []tree.Action{
		{Kind: tree.ActionFold},
		{Kind: tree.ActionCall, Amount: 100},
	}, jammed.Actions)
	require.True(t, jammed.Children[0].IsTerminal())
	require.True(t, jammed.Children[1].IsTerminal())
}

func TestNewActionTreeInvalidConfig(t *testing.T) {
	cases := []struct {
		assertion string
		mutate    func(c *tree.TreeConfig)
	}{
		{"zero pot", func(c *tree.TreeConfig) { c.StartingPot = 0 }},
		{"zero stack", func(c *tree.TreeConfig) { c.EffectiveStack = 0 }},
		{"bad street", func(c *tree.TreeConfig) { c.InitialStreet = 17 }},
		{"bad rake rate", func(c *tree.TreeConfig) { c.RakeRate = 1.5 }},
		{"negative bet size", func(c *tree.TreeConfig) { c.RiverBetSizes[0] = []float32{-0.5} }},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			config := riverConfig()
			c.mutate(&config)
			_, err := tree.NewActionTree(config)
			require.Error(t, err)
		})
	}
}

func TestStreetTransition(t *testing.T) {
	config := riverConfig()
	config.InitialStreet = tree.Flop
	config.FlopBetSizes = [2][]float32{{0.5}, {0.5}}
	at, err := tree.NewActionTree(config)
	require.NoError(t, err)

	// Check, check closes the flop into a chance node with a single deal
	// action.
	root := at.Root()
	ipCheck := root.Children[0]
	chance := ipCheck.Children[0]
	require.True(t, chance.IsChance())
	require.Equal(t, []tree.Action{{Kind: tree.ActionChance}}, chance.Actions)
	require.Equal(t, tree.Turn, chance.Children[0].Street)
}

func TestAddLine(t *testing.T) {
	at, err := tree.NewActionTree(riverConfig())
	require.NoError(t, err)

	require.NoError(t, at.AddLine([]tree.Action{{Kind: tree.ActionBet, Amount: 30}}))
	root := at.Root()
	require.Equal(t, []tree.Action{
		{Kind: tree.ActionCheck},
		{Kind: tree.ActionBet, Amount: 30},
		{Kind: tree.ActionBet, Amount: 50},
	}, root.Actions)

	// The new action carries a full subtree built from the config.
	facing := root.Children[1]
	require.Equal(t, uint8(tree.PlayerIP), facing.Player)
	require.NotEmpty(t, facing.Actions)

	_, added, removed, _ := at.Eject()
	require.Len(t, added, 1)
	require.Empty(t, removed)
}

func TestAddLineErrors(t *testing.T) {
	at, err := tree.NewActionTree(riverConfig())
	require.NoError(t, err)

	cases := []struct {
		assertion string
		line      []tree.Action
	}{
		{"empty line", nil},
		{"already exists", []tree.Action{{Kind: tree.ActionBet, Amount: 50}}},
		{"prefix not in tree", []tree.Action{
			{Kind: tree.ActionBet, Amount: 30},
			{Kind: tree.ActionRaise, Amount: 90},
		}},
		{"bet out of range", []tree.Action{{Kind: tree.ActionBet, Amount: 500}}},
		{"bet with outstanding wager", []tree.Action{
			{Kind: tree.ActionBet, Amount: 50},
			{Kind: tree.ActionBet, Amount: 80},
		}},
		{"not a bet-like action", []tree.Action{{Kind: tree.ActionFold}}},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			err := at.AddLine(c.line)
			require.Error(t, err)
			require.ErrorIs(t, err, tree.InvalidLineError{})
		})
	}
}

func TestRemoveLine(t *testing.T) {
	at, err := tree.NewActionTree(riverConfig())
	require.NoError(t, err)

	require.NoError(t, at.RemoveLine([]tree.Action{{Kind: tree.ActionBet, Amount: 50}}))
	root := at.Root()
	require.Equal(t, []tree.Action{{Kind: tree.ActionCheck}}, root.Actions)

	_, added, removed, _ := at.Eject()
	require.Empty(t, added)
	require.Len(t, removed, 1)

	// Removing the only remaining action is refused.
	err = at.RemoveLine([]tree.Action{{Kind: tree.ActionCheck}})
	require.ErrorIs(t, err, tree.InvalidLineError{})

	err = at.RemoveLine([]tree.Action{{Kind: tree.ActionBet, Amount: 99}})
	require.ErrorIs(t, err, tree.InvalidLineError{})
}

func TestRemoveCancelsAdd(t *testing.T) {
	at, err := tree.NewActionTree(riverConfig())
	require.NoError(t, err)

	line := []tree.Action{{Kind: tree.ActionBet, Amount: 30}}
	require.NoError(t, at.AddLine(line))
	require.NoError(t, at.RemoveLine(line))

	_, added, removed, _ := at.Eject()
	require.Empty(t, added)
	require.Empty(t, removed)
}

func TestEditReplayDeterminism(t *testing.T) {
	at, err := tree.NewActionTree(riverConfig())
	require.NoError(t, err)
	require.NoError(t, at.AddLine([]tree.Action{{Kind: tree.ActionBet, Amount: 30}}))
	require.NoError(t, at.RemoveLine([]tree.Action{{Kind: tree.ActionBet, Amount: 50}}))
	config, added, removed, root := at.Eject()

	replayed, err := tree.NewActionTree(config)
	require.NoError(t, err)
	for _, line := range added {
		require.NoError(t, replayed.AddLine(line))
	}
	for _, line := range removed {
		require.NoError(t, replayed.RemoveLine(line))
	}
	_, _, _, root2 := replayed.Eject()
	requireSameShape(t, root, root2)
}

func requireSameShape(t *testing.T, a, b *tree.TreeNode) {
	t.Helper()
	require.Equal(t, a.Player, b.Player)
	require.Equal(t, a.Street, b.Street)
	require.Equal(t, a.Amount, b.Amount)
	require.Equal(t, a.Actions, b.Actions)
	require.Equal(t, len(a.Children), len(b.Children))
	for i := range a.Children {
		requireSameShape(t, a.Children[i], b.Children[i])
	}
}

func TestAllInAmountResolution(t *testing.T) {
	at, err := tree.NewActionTree(riverConfig())
	require.NoError(t, err)

	// Implicit amount resolves against the stack.
	require.NoError(t, at.AddLine([]tree.Action{
		{Kind: tree.ActionCheck},
		{Kind: tree.ActionAllIn},
	}))
	root := at.Root()
	idx := -1
	for i, a := range root.Children[0].Actions {
		if a.Kind == tree.ActionAllIn {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	require.Equal(t, int32(100), root.Children[0].Actions[idx].Amount)

	// A wrong explicit amount is rejected.
	err = at.AddLine([]tree.Action{{Kind: tree.ActionAllIn, Amount: 33}})
	var invalid tree.InvalidLineError
	require.True(t, errors.As(err, &invalid))
}
