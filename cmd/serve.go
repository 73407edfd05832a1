package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tell-platform/complaint-system/internal/api"
	"github.com/tell-platform/complaint-system/internal/core/service"
	"github.com/tell-platform/complaint-system/internal/infrastructure/db/mongo"
	"github.com/tell-platform/complaint-system/internal/infrastructure/db/redis"
	"github.com/tell-platform/complaint-system/internal/infrastructure/events"
	"github.com/tell-platform/complaint-system/internal/infrastructure/http/handlers"
	"github.com/tell-platform/complaint-system/internal/infrastructure/queue"
	"github.com/tell-platform/complaint-system/internal/infrastructure/storage"
	"github.com/tell-platform/complaint-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the complaint API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	cfg, log := bootstrap()
	if err := devSecrets(cfg, log); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Persistence ---
	mongoClient, db, err := connectMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()
	// Unique email and username indexes back the duplicate checks.
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	store, err := storage.New(ctx, cfg.Media, db)
	if err != nil {
		return err
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}
	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		return err
	}
	if publisher != nil {
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Warn().Err(err).Msg("event publisher close failed")
			}
		}()
	}

	// --- Event pipeline ---
	eventService := service.NewEventService(mongo.NewEventRepository(db), publisher, logger.Component("events"))
	dispatcher := queue.NewDispatcher(cfg.Events.Workers, cfg.Events.QueueSize, eventService, logger.Component("dispatcher"))
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher.Start(dispatchCtx)
	defer stopDispatch()

	// --- Services ---
	users := mongo.NewUserRepository(db)
	authorities := mongo.NewAuthorityRepository(db)
	categories := mongo.NewCategoryRepository(db)
	complaints := mongo.NewComplaintRepository(db)
	cache := redis.NewCache(rdb, cfg.Redis.Prefix)
	notifier := newNotifier(cfg)

	tokens, err := newTokenService(cfg)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(users, authorities, tokens, notifier, cache, authLinks(cfg), logger.Component("auth"))
	mediaService := service.NewMediaService(store, cfg.PublicBaseURL, logger.Component("media"))

	e := api.NewRouter(api.Services{
		Auth:      authService,
		Existence: authService,
		Sessions:  tokens,
		Complaints: service.NewComplaintService(
			complaints, users, authorities, notifier, dispatcher, mediaService, cache, cfg.PublicBaseURL, logger.Component("complaints"),
		),
		Profiles: service.NewProfileService(users, authorities, cache, logger.Component("profiles")),
		Catalog:  service.NewCatalogService(categories, authorities, cache, cfg.CacheTTL, logger.Component("catalog")),
		Reports:  service.NewReportService(complaints, cache, cfg.CacheTTL, logger.Component("reports")),
		Media:    mediaService,
	}, api.Options{
		Log:         logger.Component("http"),
		Development: cfg.IsDevelopment(),
		Readiness: handlers.NewReadinessHandler().
			With("mongodb", handlers.MongoCheck(db)).
			With("redis", handlers.RedisCheck(rdb)),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	// --- Graceful shutdown ---
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	// Deferred closers release the publisher, storage, redis and mongo after workers drain.
	stopDispatch()
	dispatcher.Wait()

	log.Info().Msg("server stopped")
	return runErr
}
