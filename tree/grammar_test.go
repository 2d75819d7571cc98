package tree_test

import (
	"testing"

	"github.com/antiphoton/postflop-solver/tree"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		input    string
		expected []tree.Action
	}{
		{"F", []tree.Action{{Kind: tree.ActionFold}}},
		{"X", []tree.Action{{Kind: tree.ActionCheck}}},
		{"C", []tree.Action{{Kind: tree.ActionCall}}},
		{"D", []tree.Action{{Kind: tree.ActionChance}}},
		{"A", []tree.Action{{Kind: tree.ActionAllIn}}},
		{"A250", []tree.Action{{Kind: tree.ActionAllIn, Amount: 250}}},
		{"B50", []tree.Action{{Kind: tree.ActionBet, Amount: 50}}},
		{"X-B50-R150", []tree.Action{
			{Kind: tree.ActionCheck},
			{Kind: tree.ActionBet, Amount: 50},
			{Kind: tree.ActionRaise, Amount: 150},
		}},
		{"B50-R150-C-D-B120", []tree.Action{
			{Kind: tree.ActionBet, Amount: 50},
			{Kind: tree.ActionRaise, Amount: 150},
			{Kind: tree.ActionCall},
			{Kind: tree.ActionChance},
			{Kind: tree.ActionBet, Amount: 120},
		}},
		{" X - B50 ", []tree.Action{
			{Kind: tree.ActionCheck},
			{Kind: tree.ActionBet, Amount: 50},
		}},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			line, err := tree.ParseLine(c.input)
			require.NoError(t, err)
			require.Equal(t, c.expected, line)
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	cases := []string{
		"",
		"Z",
		"B",       // bet requires an amount
		"R",       // raise requires an amount
		"X--B50",  // empty token
		"X-B50-",  // trailing dash
		"B50R150", // missing dash
		"Bx",
	}
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			_, err := tree.ParseLine(input)
			require.Error(t, err)
		})
	}
}

func TestLineStringRoundTrip(t *testing.T) {
	for _, s := range []string{"F", "X-B50-R150", "B50-R150-C-D-B120"} {
		line, err := tree.ParseLine(s)
		require.NoError(t, err)
		require.Equal(t, s, tree.LineString(line))
	}
}
