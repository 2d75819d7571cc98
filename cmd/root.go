package cmd

import (
	"fmt"
	"os"

	"github.com/antiphoton/postflop-solver/game"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pfsnap",
	Short: "postflop solver snapshot tooling",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bailf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func checkErr(err error) {
	if err != nil {
		bailf("error: %v", err)
	}
}

// loadGame decodes a snapshot file.
func loadGame(path string) *game.Game {
	f, err := os.Open(path)
	if err != nil {
		bailf("failed to open snapshot: %v", err)
	}
	defer f.Close()
	g, err := game.Decode(f)
	checkErr(err)
	return g
}

// saveGame encodes a snapshot file.
func saveGame(g *game.Game, path string) {
	f, err := os.Create(path)
	if err != nil {
		bailf("failed to create snapshot: %v", err)
	}
	defer f.Close()
	checkErr(g.Encode(f))
}
