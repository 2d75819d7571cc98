package cmd

import (
	"bytes"
	"context"
	"os"

	"github.com/antiphoton/postflop-solver/game"
	"github.com/antiphoton/postflop-solver/util/log"
	"github.com/spf13/cobra"
)

var pullOut string

var pullCmd = &cobra.Command{
	Use:   "pull [id]",
	Short: "download a snapshot from a store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		provider := buildProvider()
		data, err := provider.Get(ctx, args[0])
		checkErr(err)
		g, err := game.Decode(bytes.NewReader(data))
		checkErr(err)
		out := pullOut
		if out == "" {
			out = args[0] + ".bin"
		}
		if err := os.WriteFile(out, data, 0600); err != nil {
			bailf("failed to write snapshot: %v", err)
		}
		log.Infow(ctx, "pulled snapshot",
			"id", args[0],
			"store", provider.String(),
			"bytes", len(data),
			"state", g.State().String(),
			"out", out,
		)
	},
}

func init() {
	storeFlags(pullCmd)
	pullCmd.Flags().StringVarP(&pullOut, "out", "o", "", "output file (default: <id>.bin)")
	rootCmd.AddCommand(pullCmd)
}
