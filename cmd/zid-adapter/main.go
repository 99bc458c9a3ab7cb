package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Checker-Finance/zid-adapter/internal/api"
	"github.com/Checker-Finance/zid-adapter/internal/config"
	"github.com/Checker-Finance/zid-adapter/internal/publisher"
	internalsecrets "github.com/Checker-Finance/zid-adapter/internal/secrets"
	"github.com/Checker-Finance/zid-adapter/internal/zid"
	"github.com/Checker-Finance/zid-adapter/pkg/logger"
	"github.com/Checker-Finance/zid-adapter/pkg/secrets"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [zid-adapter]...")

	// --- Zid credentials from AWS Secrets Manager (optional) ---
	if cfg.SecretName != "" {
		awsProvider, err := secrets.NewAWSProvider(ctx, cfg.AWSRegion)
		if err != nil {
			logg.Fatalw("failed to create AWS Secrets Manager provider", "error", err)
		}
		resolver := internalsecrets.NewCredentialResolver(logger.L(), awsProvider)
		if err := resolver.Apply(ctx, cfg.SecretName, cfg); err != nil {
			logg.Fatalw("failed to resolve zid credentials", "secret", cfg.SecretName, "error", err)
		}
	}

	if missing := cfg.Missing(); len(missing) > 0 {
		logg.Warnw("zid configuration incomplete; affected endpoints will fail", "missing", missing)
	}

	// --- NATS publisher (optional) ---
	var (
		nc     *nats.Conn
		events api.EventPublisher
	)
	if cfg.NATSURL != "" {
		var err error
		nc, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.ServiceName))
		if err != nil {
			logg.Fatalw("failed to connect to NATS", "error", err)
		}
		pub, err := publisher.New(logger.L(), nc, cfg.EventsSubject, cfg.ServiceName)
		if err != nil {
			logg.Fatalw("failed to init publisher", "error", err)
		}
		events = pub
	}

	// --- Zid HTTP client ---
	zidClient := zid.NewClient(logger.L(), cfg, nil)

	// --- Fiber HTTP Server ---
	app := api.NewApp(api.ServerConfig{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	})
	oauthHandler := api.NewOAuthHandler(logger.L(), cfg, zidClient, events)
	api.RegisterRoutes(app, nc, oauthHandler)

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("[zid-adapter] running",
		"env", cfg.Env,
		"redirect_uri", cfg.RedirectURI(),
		"events", cfg.NATSURL != "")

	<-ctx.Done()
	logg.Info("shutting down [zid-adapter]...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
	if nc != nil {
		if err := nc.Drain(); err != nil {
			logg.Warnw("nats.drain_failed", "error", err)
		}
	}
}
