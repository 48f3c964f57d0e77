package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"studiohub/internal/cache"
	"studiohub/internal/logger"
	"studiohub/internal/messaging"
	"studiohub/internal/server"
	"studiohub/internal/service"
	"studiohub/internal/validation"
)

const shutdownTimeout = 30 * time.Second

const (
	flagStorage        = "storage"
	flagMigrateOnStart = "migrate-on-start"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until SIGINT or SIGTERM, then drain open requests.

--storage selects the entity store: postgres, memory, or auto (postgres,
falling back to memory when the database cannot be reached).`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	f := cmd.Flags()
	f.String(server.FlagAddr, "", "address to listen on (or ADDR)")
	f.Int(server.FlagPort, 0, "port to listen on (or PORT)")
	f.String(server.FlagRedisURL, "", "redis URL for health checks and the delivery cache (or REDIS_URL)")
	f.StringSlice(server.FlagAllowedOrigins, nil, "CORS origins (or ALLOWED_ORIGINS)")
	f.String(flagStorage, storageAuto, "entity store: postgres, memory or auto")
	f.Bool(flagMigrateOnStart, true, "apply pending migrations before serving")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := server.ReadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Env: cfg.Env, Service: "studiohub"})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if !logger.IsDev(cfg.Env) {
		gin.SetMode(gin.ReleaseMode)
	}

	mode, _ := cmd.Flags().GetString(flagStorage)
	migrateOnStart, _ := cmd.Flags().GetBool(flagMigrateOnStart)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openBackend(ctx, cfg, mode, migrateOnStart, log)
	if err != nil {
		return err
	}
	defer st.close()

	opts := []server.Option{server.WithDependency("database", st.pinger)}
	var recorder messaging.SentRecorder
	if cfg.RedisURL != "" {
		rc, err := cache.Open(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := rc.Close(); err != nil {
				log.Warn("Redis client close failed", zap.Error(err))
			}
		}()
		opts = append(opts, server.WithDependency("redis", rc), server.WithDeliveryLog(rc))
		recorder = rc
	}

	svc := service.New(st.stores, validation.New(cfg.Policy(), time.Now), newMessenger(cfg.WhatsApp, recorder, log), log)
	api := server.NewStudioAPI(svc, cfg, log, opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(api.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return api.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Shutdown error", zap.Error(err))
		return err
	}
	log.Info("Shutdown gracefully")
	return nil
}

// newMessenger returns nil when WhatsApp is not configured, which makes
// quote sends answer 503.
func newMessenger(cfg server.WhatsAppConfig, recorder messaging.SentRecorder, log *zap.Logger) service.Messenger {
	if !cfg.Enabled() {
		log.Info("WhatsApp messaging disabled")
		return nil
	}
	opts := []messaging.Option{messaging.WithLogger(log)}
	if cfg.APIURL != "" {
		opts = append(opts, messaging.WithAPIURL(cfg.APIURL))
	}
	if cfg.APIVersion != "" {
		opts = append(opts, messaging.WithAPIVersion(cfg.APIVersion))
	}
	if cfg.RatePerSecond > 0 {
		opts = append(opts, messaging.WithRate(cfg.RatePerSecond, 1))
	}
	if recorder != nil {
		opts = append(opts, messaging.WithSentRecorder(recorder))
	}
	return messaging.NewClient(cfg.PhoneNumberID, cfg.Token, opts...)
}
