package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/scorelens/scoreboard-gateway/internal/analysis"
	"github.com/scorelens/scoreboard-gateway/internal/api"
	"github.com/scorelens/scoreboard-gateway/internal/config"
	"github.com/scorelens/scoreboard-gateway/internal/credential"
	"github.com/scorelens/scoreboard-gateway/internal/metrics"
	"github.com/scorelens/scoreboard-gateway/internal/publisher"
	"github.com/scorelens/scoreboard-gateway/internal/rate"
	"github.com/scorelens/scoreboard-gateway/internal/securestore"
	"github.com/scorelens/scoreboard-gateway/internal/service"
	"github.com/scorelens/scoreboard-gateway/pkg/logger"
	"github.com/scorelens/scoreboard-gateway/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [scoreboard-gateway]...")

	// --- Secure store backend ---
	var st securestore.Store
	switch cfg.SecureStoreBackend {
	case "redis":
		logg.Info("secure store: redis @ ", utils.MaskDSN(cfg.RedisAddr))
		rs, err := securestore.NewRedisStore(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass, cfg.ServiceName, cfg.MasterKey, logger.L())
		if err != nil {
			logg.Fatalw("failed to init redis secure store", "error", err)
		}
		st = rs
	case "aws":
		logg.Info("secure store: aws secrets manager, region ", cfg.AWSRegion)
		as, err := securestore.NewAWSStore(ctx, cfg.AWSRegion, cfg.Env, cfg.ServiceName, logger.L())
		if err != nil {
			logg.Fatalw("failed to init aws secure store", "error", err)
		}
		st = as
	case "memory":
		logg.Warn("secure store: in-memory, credentials will not survive restart")
		st = securestore.NewMemoryStore()
	default:
		logg.Fatalw("unknown secure store backend", "backend", cfg.SecureStoreBackend)
	}

	// --- Credential manager ---
	creds := credential.NewManager(st, logger.L())

	// --- Rate limiter ---
	limiter := rate.New(rate.Config{
		MaxCalls: cfg.RateMaxCalls,
		Window:   cfg.RateWindow,
	})

	// --- Analysis gateway ---
	client := analysis.NewClient(logger.L(), nil, analysis.ClientConfig{
		Endpoint: cfg.AnalysisEndpoint,
		Model:    cfg.AnalysisModel,
		Timeout:  cfg.AnalysisTimeout,
	})
	gateway := analysis.NewGateway(logger.L(), creds, limiter, client)

	// --- NATS + publisher (optional) ---
	var nc *nats.Conn
	var events service.EventPublisher
	if cfg.NATSURL != "" {
		var err error
		nc, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logg.Fatalw("failed to connect to NATS", "error", err)
		}
		pub, err := publisher.New(nc, cfg.OutboundSubject, cfg.ServiceName, logger.L())
		if err != nil {
			logg.Fatalw("failed to init publisher", "error", err)
		}
		events = pub
	} else {
		logg.Warn("NATS_URL not configured; analysis events disabled")
	}

	// --- Service facade ---
	svc := service.New(logger.L(), creds, limiter, gateway, events)

	// --- Metrics server ---
	metrics.StartServer(fmt.Sprintf(":%d", cfg.MetricsPort))

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BodyLimit:    cfg.HTTPBodyLimit,
	})

	handler := api.NewGatewayHandler(logger.L(), svc)
	api.RegisterRoutes(app, nc, st, handler)

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("[scoreboard-gateway] running",
		"env", cfg.Env,
		"backend", cfg.SecureStoreBackend,
		"rate_max_calls", cfg.RateMaxCalls,
		"rate_window", cfg.RateWindow)

	<-ctx.Done()
	logg.Info("shutting down [scoreboard-gateway]...")

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
