package tree

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

/*
This file contains a participle grammar for betting-line notation. A line is
a dash-separated sequence of action tokens:

    F            fold
    X            check
    C            call
    B<amount>    bet to <amount>
    R<amount>    raise to <amount>
    A[<amount>]  all in (amount optional; resolved against the stack)
    D            deal (street transition)

Example: "X-B50-R150-C-D-B120". The notation is used by the CLI's
--add-line/--remove-line flags and by config files.
*/

////////////////////////////////////////////////////////////////////////////////

var lineOptions = []participle.Option{ // nolint:gochecknoglobals
	participle.Lexer(
		lexer.MustSimple([]lexer.SimpleRule{
			{Name: "Sized", Pattern: `[BRA]\d+`},
			{Name: "Plain", Pattern: `[FXCAD]`},
			{Name: "Dash", Pattern: `-`},
			{Name: "whitespace", Pattern: `\s+`},
		}),
	),
}

// Line is the parse tree of a betting line.
type Line struct {
	Tokens []string `parser:"@(Sized | Plain) ( \"-\" @(Sized | Plain) )*"`
}

// NewLineParser returns a parser for betting-line notation.
func NewLineParser() *participle.Parser[Line] {
	return participle.MustBuild[Line](lineOptions...)
}

var lineParser = NewLineParser() // nolint:gochecknoglobals

// ParseLine parses betting-line notation into a sequence of actions.
func ParseLine(s string) ([]Action, error) {
	parsed, err := lineParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse line %q: %w", s, err)
	}
	actions := make([]Action, 0, len(parsed.Tokens))
	for _, tok := range parsed.Tokens {
		a, err := parseToken(tok)
		if err != nil {
			return nil, fmt.Errorf("failed to parse line %q: %w", s, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func parseToken(tok string) (Action, error) {
	switch tok[0] {
	case 'F':
		return Action{Kind: ActionFold}, nil
	case 'X':
		return Action{Kind: ActionCheck}, nil
	case 'C':
		return Action{Kind: ActionCall}, nil
	case 'D':
		return Action{Kind: ActionChance}, nil
	case 'B', 'R', 'A':
		kind := map[byte]ActionKind{'B': ActionBet, 'R': ActionRaise, 'A': ActionAllIn}[tok[0]]
		if len(tok) == 1 {
			if kind != ActionAllIn {
				return Action{}, fmt.Errorf("token %q requires an amount", tok)
			}
			return Action{Kind: ActionAllIn}, nil
		}
		amount, err := strconv.ParseInt(tok[1:], 10, 32)
		if err != nil {
			return Action{}, fmt.Errorf("invalid amount in token %q: %w", tok, err)
		}
		return Action{Kind: kind, Amount: int32(amount)}, nil
	default:
		return Action{}, fmt.Errorf("unrecognized token %q", tok)
	}
}
