package cmd

import (
	"context"
	"os"

	"github.com/antiphoton/postflop-solver/storage"
	"github.com/antiphoton/postflop-solver/util/log"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"
)

var (
	storeDir       string
	storeEndpoint  string
	storeBucket    string
	storeAccessKey string
	storeSecretKey string
	storeUseSSL    bool
	pushID         string
)

var pushCmd = &cobra.Command{
	Use:   "push [file]",
	Short: "upload a snapshot to a store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		provider := buildProvider()
		id := pushID
		if id == "" {
			id = uuid.NewString()
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			bailf("failed to read snapshot: %v", err)
		}
		// Decode before upload so we never push a corrupt snapshot.
		g := loadGame(args[0])
		checkErr(provider.Put(ctx, id, data))
		log.Infow(ctx, "pushed snapshot",
			"id", id,
			"store", provider.String(),
			"bytes", len(data),
			"state", g.State().String(),
		)
	},
}

// buildProvider selects a snapshot store from the persistent flags.
func buildProvider() storage.Provider {
	if storeDir != "" {
		return storage.NewDirectoryStore(storeDir)
	}
	if storeEndpoint == "" || storeBucket == "" {
		bailf("either --dir or both --endpoint and --bucket are required")
	}
	mc, err := minio.New(storeEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(storeAccessKey, storeSecretKey, ""),
		Secure: storeUseSSL,
	})
	checkErr(err)
	return storage.NewS3Store(mc, storeBucket)
}

func storeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&storeDir, "dir", "", "directory store path")
	cmd.Flags().StringVar(&storeEndpoint, "endpoint", "", "s3 endpoint")
	cmd.Flags().StringVar(&storeBucket, "bucket", "", "s3 bucket")
	cmd.Flags().StringVar(&storeAccessKey, "access-key", "", "s3 access key")
	cmd.Flags().StringVar(&storeSecretKey, "secret-key", "", "s3 secret key")
	cmd.Flags().BoolVar(&storeUseSSL, "ssl", true, "use TLS for s3")
}

func init() {
	storeFlags(pushCmd)
	pushCmd.Flags().StringVar(&pushID, "id", "", "snapshot id (default: random uuid)")
	rootCmd.AddCommand(pushCmd)
}
