package tree

import (
	"fmt"
	"strconv"
)

// Street identifies the betting round a node belongs to.
type Street uint8

const (
	Flop Street = iota
	Turn
	River
)

func (s Street) String() string {
	switch s {
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// ActionKind discriminates the Action variants.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionFold
	ActionCheck
	ActionCall
	ActionBet
	ActionRaise
	ActionAllIn
	ActionChance
)

// Action is one edge of the action tree. Amount is the acting player's total
// commitment for the street after the action, for bet-like kinds. For chance
// actions it is the dealt card.
type Action struct {
	Kind   ActionKind
	Amount int32
}

func (a Action) String() string {
	switch a.Kind {
	case ActionNone:
		return "-"
	case ActionFold:
		return "F"
	case ActionCheck:
		return "X"
	case ActionCall:
		return "C"
	case ActionBet:
		return "B" + strconv.Itoa(int(a.Amount))
	case ActionRaise:
		return "R" + strconv.Itoa(int(a.Amount))
	case ActionAllIn:
		return "A" + strconv.Itoa(int(a.Amount))
	case ActionChance:
		return "D"
	default:
		return fmt.Sprintf("?%d", a.Kind)
	}
}

// LineString renders a line in the notation accepted by ParseLine.
func LineString(line []Action) string {
	s := ""
	for i, a := range line {
		if i > 0 {
			s += "-"
		}
		s += a.String()
	}
	return s
}

// order ranks actions for canonical child ordering within a node. Bets,
// raises and all-ins with smaller amounts sort first.
func (a Action) order() int64 {
	return int64(a.Kind)<<32 | int64(uint32(a.Amount))
}
