package game

import (
	"errors"
	"fmt"
)

/*
Card and range handling. Cards are encoded as rank*4+suit in [0, 52); the
explicit absent marker is CardNone. A range assigns a weight in [0, 1] to
each of the 1326 unordered two-card combinations, indexed in (low, high)
lexicographic order.
*/

////////////////////////////////////////////////////////////////////////////////

// CardNone marks an undealt card.
const CardNone = uint8(0xff)

// NumCombos is the number of unordered two-card combinations.
const NumCombos = 1326

const (
	ranks = "23456789TJQKA"
	suits = "cdhs"
)

// CardString renders a card as e.g. "As" or "7c".
func CardString(c uint8) string {
	if c == CardNone {
		return "--"
	}
	if c >= 52 {
		return fmt.Sprintf("?%d", c)
	}
	return string(ranks[c/4]) + string(suits[c%4])
}

// comboCards returns the two cards of a combo index.
func comboCards(idx int) (uint8, uint8) {
	// Walk the triangular layout. idx = sum of row widths above i, plus
	// the offset of j past i.
	i := 0
	for idx >= 51-i {
		idx -= 51 - i
		i++
	}
	return uint8(i), uint8(i + 1 + idx)
}

// CardConfig carries the card-dependent inputs of a solver instance: both
// players' ranges and the board.
type CardConfig struct {
	RangeOOP []float32 `json:"range_oop"`
	RangeIP  []float32 `json:"range_ip"`
	Flop     [3]uint8  `json:"flop"`
	Turn     uint8     `json:"turn"`
	River    uint8     `json:"river"`
}

// Validate checks the card config for internal consistency.
func (c *CardConfig) Validate() error {
	if len(c.RangeOOP) != NumCombos || len(c.RangeIP) != NumCombos {
		return fmt.Errorf("ranges must have %d entries", NumCombos)
	}
	for _, r := range [2][]float32{c.RangeOOP, c.RangeIP} {
		for _, w := range r {
			if w < 0 || w > 1 {
				return fmt.Errorf("range weight out of [0, 1]: %f", w)
			}
		}
	}
	seen := map[uint8]bool{}
	for _, card := range c.Flop {
		if card >= 52 {
			return fmt.Errorf("invalid flop card: %d", card)
		}
		if seen[card] {
			return errors.New("duplicate board card")
		}
		seen[card] = true
	}
	for _, card := range [2]uint8{c.Turn, c.River} {
		if card == CardNone {
			continue
		}
		if card >= 52 {
			return fmt.Errorf("invalid board card: %d", card)
		}
		if seen[card] {
			return errors.New("duplicate board card")
		}
		seen[card] = true
	}
	if c.River != CardNone && c.Turn == CardNone {
		return errors.New("river card set without a turn card")
	}
	return nil
}

// boardMask returns a bitmask of the cards fixed by the config.
func (c *CardConfig) boardMask() uint64 {
	var mask uint64
	for _, card := range c.Flop {
		mask |= 1 << card
	}
	if c.Turn != CardNone {
		mask |= 1 << c.Turn
	}
	if c.River != CardNone {
		mask |= 1 << c.River
	}
	return mask
}

// hand is one playable combo of a player's range.
type hand struct {
	cards  [2]uint8
	weight float32
}

// rangeHands enumerates the combos of a range with positive weight that do
// not conflict with the board.
func rangeHands(r []float32, board uint64) []hand {
	var hands []hand
	for idx, w := range r {
		if w <= 0 {
			continue
		}
		c1, c2 := comboCards(idx)
		if board&(1<<c1) != 0 || board&(1<<c2) != 0 {
			continue
		}
		hands = append(hands, hand{cards: [2]uint8{c1, c2}, weight: w})
	}
	return hands
}

// countCombinations computes the weighted number of non-conflicting
// matchups between the two ranges.
func countCombinations(oop, ip []hand) float64 {
	var total float64
	for _, o := range oop {
		om := uint64(1)<<o.cards[0] | uint64(1)<<o.cards[1]
		for _, i := range ip {
			im := uint64(1)<<i.cards[0] | uint64(1)<<i.cards[1]
			if om&im != 0 {
				continue
			}
			total += float64(o.weight) * float64(i.weight)
		}
	}
	return total
}
