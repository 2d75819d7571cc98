package cmd

import (
	"context"
	"os"

	"github.com/antiphoton/postflop-solver/game"
	"github.com/antiphoton/postflop-solver/tree"
	"github.com/antiphoton/postflop-solver/util/log"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	buildTreeConfig string
	buildCardConfig string
	buildOut        string
	buildAddLines   []string
	buildRemoves    []string
	buildCompress   bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "build a solver instance from config files and write its snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.AddTags(context.Background(), "out", buildOut)

		var treeConfig tree.TreeConfig
		readJSON(buildTreeConfig, &treeConfig)
		var cardConfig game.CardConfig
		readJSON(buildCardConfig, &cardConfig)

		actionTree, err := tree.NewActionTree(treeConfig)
		checkErr(err)
		for _, s := range buildAddLines {
			line, err := tree.ParseLine(s)
			checkErr(err)
			checkErr(actionTree.AddLine(line))
		}
		for _, s := range buildRemoves {
			line, err := tree.ParseLine(s)
			checkErr(err)
			checkErr(actionTree.RemoveLine(line))
		}

		opts := []game.Option{}
		if buildCompress {
			opts = append(opts, game.WithCompression())
		}
		g, err := game.NewGame(cardConfig, actionTree, opts...)
		checkErr(err)
		checkErr(g.AllocateMemory())
		checkErr(g.BuildTree())

		primary, ip, chance := g.StorageCounts()
		log.Infow(ctx, "built solver instance",
			"nodes", g.NumNodes(),
			"primaryElements", primary,
			"ipElements", ip,
			"chanceElements", chance,
		)
		saveGame(g, buildOut)
	},
}

func readJSON(path string, v any) {
	data, err := os.ReadFile(path)
	if err != nil {
		bailf("failed to read config %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		bailf("failed to parse config %s: %v", path, err)
	}
}

func init() {
	buildCmd.Flags().StringVar(&buildTreeConfig, "tree-config", "", "tree config JSON file")
	buildCmd.Flags().StringVar(&buildCardConfig, "card-config", "", "card config JSON file")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "snapshot.bin", "output snapshot file")
	buildCmd.Flags().StringArrayVar(&buildAddLines, "add-line", nil, "betting line to add, e.g. B50-R150")
	buildCmd.Flags().StringArrayVar(&buildRemoves, "remove-line", nil, "betting line to remove")
	buildCmd.Flags().BoolVar(&buildCompress, "compress", false, "compress arena payloads")
	if err := buildCmd.MarkFlagRequired("tree-config"); err != nil {
		panic(err)
	}
	if err := buildCmd.MarkFlagRequired("card-config"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(buildCmd)
}
