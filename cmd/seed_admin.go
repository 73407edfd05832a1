package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tell-platform/complaint-system/internal/core/ports"
	"github.com/tell-platform/complaint-system/internal/core/service"
	"github.com/tell-platform/complaint-system/internal/infrastructure/db/mongo"
	"github.com/tell-platform/complaint-system/pkg/logger"
)

var seedAdminFlags struct {
	name     string
	username string
	email    string
	contact  string
}

// seedAdminCmd represents the seed-admin command
var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Creates the admin account, or resets its password if it exists",
	Long: `Creates the admin account (role 99) in the authorities collection.
The password is read from ADMIN_PASSWORD. Usage:

	ADMIN_PASSWORD=... tell seed-admin --username admin --email admin@example.com
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			return errors.New("ADMIN_PASSWORD is required")
		}

		cfg, log := bootstrap()
		if err := devSecrets(cfg, log); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		client, db, err := connectMongo(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		tokens, err := newTokenService(cfg)
		if err != nil {
			return err
		}
		auth := service.NewAuthService(
			mongo.NewUserRepository(db), mongo.NewAuthorityRepository(db),
			tokens, newNotifier(cfg), nil, authLinks(cfg), logger.Component("seed"),
		)

		admin, err := auth.SeedAdmin(ctx, ports.CreateAuthorityInput{
			AuthorityName: seedAdminFlags.name,
			Username:      seedAdminFlags.username,
			Email:         seedAdminFlags.email,
			Contact:       seedAdminFlags.contact,
			Password:      password,
		})
		if err != nil {
			return err
		}
		log.Info().Str("admin_id", admin.ID).Str("username", admin.Username).Msg("admin account ready")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)

	seedAdminCmd.Flags().StringVar(&seedAdminFlags.name, "name", "Administrator", "display name")
	seedAdminCmd.Flags().StringVar(&seedAdminFlags.username, "username", "admin", "sign-in username")
	seedAdminCmd.Flags().StringVar(&seedAdminFlags.email, "email", "", "contact email")
	seedAdminCmd.Flags().StringVar(&seedAdminFlags.contact, "contact", "", "contact phone")
	_ = seedAdminCmd.MarkFlagRequired("email")
}
