package game

/*
Derived runtime structures. Everything here is reconstructed rather than
persisted: snapshots carry only the inputs (configs, edit log, history) and
the reconstruction is deterministic.
*/

////////////////////////////////////////////////////////////////////////////////

// initHands enumerates the playable hands of both ranges against the
// configured board.
func (g *Game) initHands() {
	board := g.cardConfig.boardMask()
	g.handsOOP = rangeHands(g.cardConfig.RangeOOP, board)
	g.handsIP = rangeHands(g.cardConfig.RangeIP, board)
}

// initCardFields computes the dealable-card mask.
func (g *Game) initCardFields() {
	g.possibleCards = ^g.cardConfig.boardMask() & (1<<52 - 1)
}

// initInterpreter resets the traversal cursor to the root.
func (g *Game) initInterpreter() {
	g.currentNode = 0
	g.history = nil
	g.isNormalizedWeightCached = false
	g.normalizedWeights = [2][]float32{}
}

// CacheNormalizedWeights computes and caches the normalized weight table
// for both ranges. The cache presence is recorded in snapshots and the
// table is recomputed after decode.
func (g *Game) CacheNormalizedWeights() error {
	if g.state < TreeBuilt {
		return ErrTreeNotBuilt
	}
	for player, hands := range [2][]hand{g.handsOOP, g.handsIP} {
		var total float64
		for _, h := range hands {
			total += float64(h.weight)
		}
		weights := make([]float32, len(hands))
		if total > 0 {
			for i, h := range hands {
				weights[i] = float32(float64(h.weight) / total)
			}
		}
		g.normalizedWeights[player] = weights
	}
	g.isNormalizedWeightCached = true
	return nil
}

// NormalizedWeightsCached reports whether the normalized weight table is
// populated.
func (g *Game) NormalizedWeightsCached() bool {
	return g.isNormalizedWeightCached
}

// NormalizedWeights returns the cached normalized weights for a player.
func (g *Game) NormalizedWeights(player int) []float32 {
	return g.normalizedWeights[player]
}

// NumHands returns the playable hand count for a player. Valid from
// TreeBuilt.
func (g *Game) NumHands(player int) int {
	if player == 0 {
		return len(g.handsOOP)
	}
	return len(g.handsIP)
}
