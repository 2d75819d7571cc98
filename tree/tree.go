package tree

import (
	"fmt"
	"slices"
)

/*
The tree package builds action trees for heads-up postflop play. A tree is a
pure function of its config plus the ordered log of added and removed lines:
rebuilding from the same config and replaying the same edits reproduces an
identical tree. The node sequence of a solver instance is derived from an
ejected tree, never the other way around.

Decision nodes hold their legal actions and one child per action. A street
closes on a call or a check-back; closing below the river inserts a chance
node with a single generic deal action, which the solver expands per card
when materializing its node sequence.
*/

////////////////////////////////////////////////////////////////////////////////

// Remaining TreeNode.Player values beyond PlayerOOP/PlayerIP.
const (
	PlayerChance   = 2
	PlayerTerminal = 3
)

// TreeNode is one node of the action tree. Amount is the street commitment
// established by the action leading here, zero for check/fold/chance edges.
type TreeNode struct {
	Street   Street
	Player   uint8
	Amount   int32
	Actions  []Action
	Children []*TreeNode

	st nodeState
}

// IsTerminal reports whether the node ends the hand.
func (n *TreeNode) IsTerminal() bool {
	return n.Player == PlayerTerminal
}

// IsChance reports whether the node deals a card.
func (n *TreeNode) IsChance() bool {
	return n.Player == PlayerChance
}

func (n *TreeNode) findAction(a Action) int {
	for i, b := range n.Actions {
		if a.Kind != b.Kind {
			continue
		}
		switch a.Kind {
		case ActionFold, ActionCheck, ActionCall, ActionChance:
			// amount-insensitive
			return i
		case ActionAllIn:
			if a.Amount == 0 || a.Amount == b.Amount {
				return i
			}
		default:
			if a.Amount == b.Amount {
				return i
			}
		}
	}
	return -1
}

// nodeState tracks the betting situation while building or navigating.
// committed is per-player chips put in on the current street; spent is the
// total from completed streets.
type nodeState struct {
	street    Street
	pot       int32
	committed [2]int32
	spent     [2]int32
	toAct     int
	raised    bool
}

func (st nodeState) potNow() int32 {
	return st.pot + st.committed[0] + st.committed[1]
}

// maxTo is the street commitment a player reaches by going all in.
func (st nodeState) maxTo(cfg *TreeConfig, player int) int32 {
	return cfg.EffectiveStack - st.spent[player]
}

// ActionTree builds and edits the action tree for a config.
type ActionTree struct {
	config       TreeConfig
	root         *TreeNode
	addedLines   [][]Action
	removedLines [][]Action
}

// NewActionTree builds the default tree for the config.
func NewActionTree(config TreeConfig) (*ActionTree, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate tree config: %w", err)
	}
	t := &ActionTree{config: config}
	t.root = t.buildDecision(nodeState{
		street: config.InitialStreet,
		pot:    config.StartingPot,
		toAct:  PlayerOOP,
	})
	return t, nil
}

// Config returns the tree's config.
func (t *ActionTree) Config() TreeConfig {
	return t.config
}

// Root returns the root decision node.
func (t *ActionTree) Root() *TreeNode {
	return t.root
}

// Eject releases the tree's products: the config, the edit log, and the
// root of the built tree. The tree should not be edited afterward.
func (t *ActionTree) Eject() (TreeConfig, [][]Action, [][]Action, *TreeNode) {
	return t.config, t.addedLines, t.removedLines, t.root
}

// AddLine inserts a custom action as the final element of line, whose prefix
// must already exist in the tree. The subtree below the new action is built
// from the config as usual. The edit is recorded so that replaying the edit
// log on a fresh tree reproduces this one.
func (t *ActionTree) AddLine(line []Action) error {
	if len(line) == 0 {
		return InvalidLineError{line, "empty line"}
	}
	cur := t.root
	for i, a := range line {
		last := i == len(line)-1
		idx := cur.findAction(a)
		if idx >= 0 {
			if last {
				return InvalidLineError{line, "line already exists"}
			}
			cur = cur.Children[idx]
			continue
		}
		if !last {
			return InvalidLineError{line, "prefix not in tree"}
		}
		resolved, err := t.resolveInsert(cur, a)
		if err != nil {
			return err
		}
		child := t.makeChild(cur.st, resolved)
		pos, _ := slices.BinarySearchFunc(cur.Actions, resolved, func(x, y Action) int {
			switch {
			case x.order() < y.order():
				return -1
			case x.order() > y.order():
				return 1
			default:
				return 0
			}
		})
		cur.Actions = slices.Insert(cur.Actions, pos, resolved)
		cur.Children = slices.Insert(cur.Children, pos, child)
		t.addedLines = append(t.addedLines, slices.Clone(line))
		return nil
	}
	return InvalidLineError{line, "line already exists"}
}

// RemoveLine removes the final action of line, and its subtree, from the
// tree. The edit is recorded unless it cancels a previous AddLine.
func (t *ActionTree) RemoveLine(line []Action) error {
	if len(line) == 0 {
		return InvalidLineError{line, "empty line"}
	}
	cur := t.root
	for i, a := range line {
		idx := cur.findAction(a)
		if idx < 0 {
			return InvalidLineError{line, "line not in tree"}
		}
		if i < len(line)-1 {
			cur = cur.Children[idx]
			continue
		}
		if len(cur.Actions) == 1 {
			return InvalidLineError{line, "cannot remove the only action of a node"}
		}
		cur.Actions = slices.Delete(cur.Actions, idx, idx+1)
		cur.Children = slices.Delete(cur.Children, idx, idx+1)
		if j := slices.IndexFunc(t.addedLines, func(l []Action) bool {
			return slices.Equal(l, line)
		}); j >= 0 {
			t.addedLines = slices.Delete(t.addedLines, j, j+1)
		} else {
			t.removedLines = append(t.removedLines, slices.Clone(line))
		}
		return nil
	}
	return InvalidLineError{line, "line not in tree"}
}

// resolveInsert validates a user-supplied action against the insertion
// node's betting state, filling in the all-in amount when left implicit.
func (t *ActionTree) resolveInsert(n *TreeNode, a Action) (Action, error) {
	st := n.st
	p := st.toAct
	maxTo := st.maxTo(&t.config, p)
	switch a.Kind {
	case ActionBet:
		if st.raised {
			return a, InvalidLineError{[]Action{a}, "bet with an outstanding wager"}
		}
		if a.Amount <= 0 || a.Amount >= maxTo {
			return a, InvalidLineError{[]Action{a}, "bet amount out of range"}
		}
	case ActionRaise:
		if !st.raised {
			return a, InvalidLineError{[]Action{a}, "raise without an outstanding wager"}
		}
		if a.Amount <= st.committed[1-p] || a.Amount >= maxTo {
			return a, InvalidLineError{[]Action{a}, "raise amount out of range"}
		}
	case ActionAllIn:
		if a.Amount != 0 && a.Amount != maxTo {
			return a, InvalidLineError{[]Action{a}, "all-in amount does not match stack"}
		}
		a.Amount = maxTo
	default:
		return a, InvalidLineError{[]Action{a}, "only bet, raise and all-in lines can be added"}
	}
	return a, nil
}

// buildDecision builds the decision node for st and its full subtree.
func (t *ActionTree) buildDecision(st nodeState) *TreeNode {
	node := &TreeNode{
		Street: st.street,
		Player: uint8(st.toAct),
		st:     st,
	}
	for _, a := range t.legalActions(st) {
		node.Actions = append(node.Actions, a)
		node.Children = append(node.Children, t.makeChild(st, a))
	}
	return node
}

// makeChild applies a to st and builds the resulting subtree.
func (t *ActionTree) makeChild(st nodeState, a Action) *TreeNode {
	p := st.toAct
	switch a.Kind {
	case ActionFold:
		return &TreeNode{Street: st.street, Player: PlayerTerminal, st: st}
	case ActionCheck:
		if p == PlayerIP {
			return t.closeStreet(st)
		}
		st.toAct = PlayerIP
		return t.buildDecision(st)
	case ActionCall:
		st.committed[p] = a.Amount
		return t.closeStreet(st)
	case ActionBet, ActionRaise, ActionAllIn:
		st.committed[p] = a.Amount
		st.raised = true
		st.toAct = 1 - p
		child := t.buildDecision(st)
		child.Amount = a.Amount
		return child
	default:
		panic(fmt.Sprintf("unexpected action kind: %d", a.Kind))
	}
}

// closeStreet folds the street's commitments into the pot and either ends
// the hand or inserts the chance node dealing the next street.
func (t *ActionTree) closeStreet(st nodeState) *TreeNode {
	st.pot += st.committed[0] + st.committed[1]
	st.spent[0] += st.committed[0]
	st.spent[1] += st.committed[1]
	st.committed = [2]int32{}
	st.raised = false
	st.toAct = PlayerOOP

	bothAllIn := st.spent[0] >= t.config.EffectiveStack && st.spent[1] >= t.config.EffectiveStack
	if st.street == River || bothAllIn {
		return &TreeNode{Street: st.street, Player: PlayerTerminal, st: st}
	}
	next := st
	next.street++
	return &TreeNode{
		Street:   st.street,
		Player:   PlayerChance,
		Actions:  []Action{{Kind: ActionChance}},
		Children: []*TreeNode{t.buildDecision(next)},
		st:       st,
	}
}

// legalActions computes the default action list for a betting state.
func (t *ActionTree) legalActions(st nodeState) []Action {
	p := st.toAct
	opp := 1 - p
	potNow := st.potNow()
	maxTo := st.maxTo(&t.config, p)
	sizes := t.config.BetSizes(p, st.street)

	var actions []Action
	wantAllIn := false

	if !st.raised {
		actions = append(actions, Action{Kind: ActionCheck})
		seen := map[int32]bool{}
		for _, f := range sizes {
			amt := int32(f * float32(potNow))
			if amt < 1 {
				amt = 1
			}
			if amt >= maxTo || float32(maxTo-amt) <= t.config.ForceAllInThreshold*float32(potNow) {
				wantAllIn = true
				continue
			}
			if !seen[amt] {
				seen[amt] = true
				actions = append(actions, Action{Kind: ActionBet, Amount: amt})
			}
		}
	} else {
		actions = append(actions, Action{Kind: ActionFold})
		actions = append(actions, Action{Kind: ActionCall, Amount: min(st.committed[opp], maxTo)})
		if maxTo > st.committed[opp] {
			potAfterCall := potNow + st.committed[opp] - st.committed[p]
			seen := map[int32]bool{}
			for _, f := range sizes {
				to := st.committed[opp] + int32(f*float32(potAfterCall))
				if to < 2*st.committed[opp] {
					to = 2 * st.committed[opp]
				}
				if to >= maxTo || float32(maxTo-to) <= t.config.ForceAllInThreshold*float32(potNow) {
					wantAllIn = true
					continue
				}
				if !seen[to] {
					seen[to] = true
					actions = append(actions, Action{Kind: ActionRaise, Amount: to})
				}
			}
		} else {
			// Facing an all-in: only fold or call.
			return actions
		}
	}

	remaining := maxTo - st.committed[p]
	if wantAllIn ||
		(t.config.AddAllInThreshold > 0 && float32(remaining) <= t.config.AddAllInThreshold*float32(potNow)) {
		actions = append(actions, Action{Kind: ActionAllIn, Amount: maxTo})
	}
	slices.SortFunc(actions, func(x, y Action) int {
		switch {
		case x.order() < y.order():
			return -1
		case x.order() > y.order():
			return 1
		default:
			return 0
		}
	})
	return actions
}
