package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/tell-platform/complaint-system/internal/infrastructure/db/mongo"
)

// ensureIndexesCmd represents the ensure-indexes command
var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Creates the MongoDB indexes the API relies on",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := bootstrap()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		client, db, err := connectMongo(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ensureIndexesCmd)
}
