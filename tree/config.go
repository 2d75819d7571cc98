package tree

import (
	"errors"
	"fmt"
)

/*
TreeConfig describes the shape parameters of an action tree: the initial
street, stake sizes, and the candidate bet sizings per player and street.
Bet sizes are fractions of the pot at decision time. The config is the sole
input to tree construction; two trees built from equal configs are
identical.
*/

////////////////////////////////////////////////////////////////////////////////

// PlayerOOP and PlayerIP index per-player configuration. OOP acts first on
// every street.
const (
	PlayerOOP = 0
	PlayerIP  = 1
)

type TreeConfig struct {
	InitialStreet  Street  `json:"initial_street"`
	StartingPot    int32   `json:"starting_pot"`
	EffectiveStack int32   `json:"effective_stack"`
	RakeRate       float64 `json:"rake_rate"`
	RakeCap        float64 `json:"rake_cap"`

	// Bet size candidates as pot fractions, indexed [player].
	FlopBetSizes  [2][]float32 `json:"flop_bet_sizes"`
	TurnBetSizes  [2][]float32 `json:"turn_bet_sizes"`
	RiverBetSizes [2][]float32 `json:"river_bet_sizes"`

	// AddAllInThreshold adds an all-in option whenever the remaining stack
	// is at most this fraction of the pot. Zero disables the option outside
	// of forced spots.
	AddAllInThreshold float32 `json:"add_all_in_threshold"`

	// ForceAllInThreshold replaces a bet with an all-in when the bet would
	// leave behind at most this fraction of the pot.
	ForceAllInThreshold float32 `json:"force_all_in_threshold"`
}

// BetSizes returns the configured bet size fractions for a player and street.
func (c *TreeConfig) BetSizes(player int, street Street) []float32 {
	switch street {
	case Flop:
		return c.FlopBetSizes[player]
	case Turn:
		return c.TurnBetSizes[player]
	case River:
		return c.RiverBetSizes[player]
	default:
		return nil
	}
}

// Validate checks the config for internal consistency.
func (c *TreeConfig) Validate() error {
	if c.InitialStreet > River {
		return fmt.Errorf("invalid initial street: %d", c.InitialStreet)
	}
	if c.StartingPot <= 0 {
		return errors.New("starting pot must be positive")
	}
	if c.EffectiveStack <= 0 {
		return errors.New("effective stack must be positive")
	}
	if c.RakeRate < 0 || c.RakeRate >= 1 {
		return fmt.Errorf("invalid rake rate: %f", c.RakeRate)
	}
	if c.RakeCap < 0 {
		return fmt.Errorf("invalid rake cap: %f", c.RakeCap)
	}
	if c.AddAllInThreshold < 0 || c.ForceAllInThreshold < 0 {
		return errors.New("all-in thresholds must be nonnegative")
	}
	for street := Flop; street <= River; street++ {
		for player := PlayerOOP; player <= PlayerIP; player++ {
			for _, f := range c.BetSizes(player, street) {
				if f <= 0 {
					return fmt.Errorf("invalid %s bet size for player %d: %f", street, player, f)
				}
			}
		}
	}
	return nil
}
