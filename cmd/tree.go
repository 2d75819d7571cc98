package cmd

import (
	"fmt"
	"strings"

	"github.com/antiphoton/postflop-solver/game"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var treeMaxDepth int

var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "print the action structure of a snapshot's tree",
	Run: func(cmd *cobra.Command, args []string) {
		g := loadGame(args[0])
		if g.NumNodes() == 0 {
			bailf("snapshot has no node sequence (state %s)", g.State())
		}
		printNode(g, 0, 0)
	},
}

var chanceLabel = color.New(color.FgYellow).SprintFunc() // nolint:gochecknoglobals

// printNode prints the subtree under node i. Chance nodes collapse to one
// line and descend through their first child only; the sibling subtrees
// differ only in the dealt card.
func printNode(g *game.Game, i int, depth int) {
	if treeMaxDepth > 0 && depth > treeMaxDepth {
		return
	}
	indent := strings.Repeat("  ", depth)
	n := g.Node(i)
	switch {
	case n.IsTerminal():
		fmt.Printf("%s%s [terminal]\n", indent, n.PrevAction)
	case n.IsChance():
		fmt.Printf("%s%s %s\n", indent, n.PrevAction, chanceLabel(fmt.Sprintf("[deal: %d cards]", n.NumChildren)))
		if n.NumChildren > 0 {
			printNode(g, int(n.ChildrenStart), depth+1)
		}
	default:
		fmt.Printf("%s%s [player %d, %d children]\n", indent, n.PrevAction, n.Player, n.NumChildren)
		for c := 0; c < int(n.NumChildren); c++ {
			printNode(g, int(n.ChildrenStart)+c, depth+1)
		}
	}
}

func init() {
	treeCmd.Args = cobra.ExactArgs(1)
	treeCmd.Flags().IntVar(&treeMaxDepth, "max-depth", 0, "limit printed depth (0 = unlimited)")
	rootCmd.AddCommand(treeCmd)
}
