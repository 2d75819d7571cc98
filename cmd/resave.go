package cmd

import (
	"github.com/spf13/cobra"
)

var (
	resaveCompress   bool
	resaveUncompress bool
)

var resaveCmd = &cobra.Command{
	Use:   "resave [in] [out]",
	Short: "decode a snapshot and re-encode it, optionally changing compression",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if resaveCompress && resaveUncompress {
			bailf("--compress and --no-compress are mutually exclusive")
		}
		g := loadGame(args[0])
		if resaveCompress {
			g.SetCompression(true)
		}
		if resaveUncompress {
			g.SetCompression(false)
		}
		saveGame(g, args[1])
	},
}

func init() {
	resaveCmd.Flags().BoolVar(&resaveCompress, "compress", false, "compress arena payloads")
	resaveCmd.Flags().BoolVar(&resaveUncompress, "no-compress", false, "store arena payloads raw")
	rootCmd.AddCommand(resaveCmd)
}
