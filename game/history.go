package game

import "slices"

// ApplyHistory replays a sequence of chosen-action indices from the root,
// restoring the traversal cursor. An index that does not fit the tree is an
// error and leaves the cursor at the root.
func (g *Game) ApplyHistory(history []int) error {
	if g.state < TreeBuilt {
		return ErrTreeNotBuilt
	}
	g.initInterpreter()
	for step, idx := range history {
		n := &g.nodes[g.currentNode]
		if idx < 0 || uint32(idx) >= n.NumChildren {
			g.initInterpreter()
			return HistoryError{Step: step, Index: idx}
		}
		g.currentNode = int(n.ChildrenStart) + idx
	}
	g.history = slices.Clone(history)
	return nil
}

// History returns the chosen-action indices leading to the current node.
func (g *Game) History() []int {
	return slices.Clone(g.history)
}

// CurrentNode returns the index of the cursor's node.
func (g *Game) CurrentNode() int {
	return g.currentNode
}

// Back moves the cursor up one step.
func (g *Game) Back() error {
	if g.state < TreeBuilt {
		return ErrTreeNotBuilt
	}
	if len(g.history) == 0 {
		return HistoryError{Step: 0, Index: -1}
	}
	return g.ApplyHistory(g.history[:len(g.history)-1])
}
