package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/tell-platform/complaint-system/internal/core/service"
	"github.com/tell-platform/complaint-system/internal/infrastructure/config"
	"github.com/tell-platform/complaint-system/internal/infrastructure/crypto"
	"github.com/tell-platform/complaint-system/internal/infrastructure/db/mongo"
	"github.com/tell-platform/complaint-system/internal/infrastructure/notify"
	"github.com/tell-platform/complaint-system/pkg/logger"
)

// devSecrets fills empty token secrets in development so the API can start
// without a .env file. Tokens signed with them die with the process.
func devSecrets(cfg *config.Config, log zerolog.Logger) error {
	filled, err := cfg.FillDevelopmentSecrets()
	if err != nil {
		return err
	}
	for _, name := range filled {
		log.Warn().Str("setting", name).Msg("using a random per-process secret")
	}
	return nil
}

func connectMongo(ctx context.Context, cfg *config.Config) (*mongodriver.Client, *mongodriver.Database, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, nil, err
	}
	return client, db, nil
}

func newTokenService(cfg *config.Config) (*service.TokenService, error) {
	cipher, err := crypto.NewFieldCipher(cfg.Auth.CipherKey)
	if err != nil {
		return nil, fmt.Errorf("field cipher: %w", err)
	}
	return service.NewTokenService(service.TokenConfig{
		Issuer:        cfg.Auth.Issuer,
		SessionSecret: cfg.Auth.SessionSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		SignupSecret:  cfg.Auth.SignupSecret,
		SessionTTL:    cfg.Auth.SessionTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
		SignupTTL:     cfg.Auth.SignupTTL,
	}, cipher), nil
}

// authLinks points account mails at the web client when one is configured.
// Without a client the activation link hits GET /auth/activate directly and
// the welcome mail carries no sign-in link.
func authLinks(cfg *config.Config) service.AuthLinks {
	if client := strings.TrimRight(cfg.ClientBaseURL, "/"); client != "" {
		return service.AuthLinks{
			Activate:        client + "/activate",
			AuthoritySignIn: client + "/pro/signin",
		}
	}
	return service.AuthLinks{Activate: strings.TrimRight(cfg.PublicBaseURL, "/") + "/auth/activate"}
}

func newNotifier(cfg *config.Config) *notify.HTTPNotifier {
	return notify.NewHTTPNotifier(cfg.Notify.BaseURL, cfg.Notify.Timeout, logger.Component("notifier"))
}
