package cmd

import (
	"fmt"

	"github.com/antiphoton/postflop-solver/game"
	"github.com/antiphoton/postflop-solver/tree"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var inspectJSON bool

// snapshotSummary is the JSON shape of `inspect --json`.
type snapshotSummary struct {
	Version         string   `json:"version"`
	State           string   `json:"state"`
	Board           []string `json:"board"`
	StartingPot     int32    `json:"starting_pot"`
	EffectiveStack  int32    `json:"effective_stack"`
	AddedLines      []string `json:"added_lines"`
	RemovedLines    []string `json:"removed_lines"`
	Nodes           int      `json:"nodes"`
	PrimaryElements uint64   `json:"primary_elements"`
	IPElements      uint64   `json:"ip_elements"`
	ChanceElements  uint64   `json:"chance_elements"`
	Combinations    float64  `json:"combinations"`
	Compressed      bool     `json:"compressed"`
	History         []int    `json:"history"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "print a summary of a snapshot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g := loadGame(args[0])
		summary := summarize(g)
		if inspectJSON {
			data, err := json.MarshalIndent(summary, "", "  ")
			checkErr(err)
			fmt.Println(string(data))
			return
		}
		label := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s %s\n", label("version:"), summary.Version)
		fmt.Printf("%s %s\n", label("state:"), summary.State)
		fmt.Printf("%s %v\n", label("board:"), summary.Board)
		fmt.Printf("%s %d\n", label("starting pot:"), summary.StartingPot)
		fmt.Printf("%s %d\n", label("effective stack:"), summary.EffectiveStack)
		fmt.Printf("%s %v\n", label("added lines:"), summary.AddedLines)
		fmt.Printf("%s %v\n", label("removed lines:"), summary.RemovedLines)
		fmt.Printf("%s %d\n", label("nodes:"), summary.Nodes)
		fmt.Printf("%s %d / %d / %d\n", label("elements (primary/ip/chance):"),
			summary.PrimaryElements, summary.IPElements, summary.ChanceElements)
		fmt.Printf("%s %.2f\n", label("combinations:"), summary.Combinations)
		fmt.Printf("%s %v\n", label("compressed:"), summary.Compressed)
		fmt.Printf("%s %v\n", label("history:"), summary.History)
	},
}

func summarize(g *game.Game) snapshotSummary {
	cc := g.CardConfig()
	board := []string{}
	for _, c := range cc.Flop {
		board = append(board, game.CardString(c))
	}
	if cc.Turn != game.CardNone {
		board = append(board, game.CardString(cc.Turn))
	}
	if cc.River != game.CardNone {
		board = append(board, game.CardString(cc.River))
	}
	lines := func(ls [][]tree.Action) []string {
		out := make([]string, 0, len(ls))
		for _, l := range ls {
			out = append(out, tree.LineString(l))
		}
		return out
	}
	primary, ip, chance := g.StorageCounts()
	return snapshotSummary{
		Version:         game.VersionString,
		State:           g.State().String(),
		Board:           board,
		StartingPot:     g.Config().StartingPot,
		EffectiveStack:  g.Config().EffectiveStack,
		AddedLines:      lines(g.AddedLines()),
		RemovedLines:    lines(g.RemovedLines()),
		Nodes:           g.NumNodes(),
		PrimaryElements: primary,
		IPElements:      ip,
		ChanceElements:  chance,
		Combinations:    g.NumCombinations(),
		Compressed:      g.CompressionEnabled(),
		History:         g.History(),
	}
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(inspectCmd)
}
