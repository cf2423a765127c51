// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages; everything here
// is construction and shutdown ordering.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"motoreg/internal/audit"
	auditpublisher "motoreg/internal/audit/publisher"
	auditmemory "motoreg/internal/audit/store/memory"
	auditworker "motoreg/internal/audit/worker"
	dashhandler "motoreg/internal/dashboard/handler"
	"motoreg/internal/dashboard/poller"
	dashservice "motoreg/internal/dashboard/service"
	"motoreg/internal/platform/config"
	"motoreg/internal/platform/httpserver"
	"motoreg/internal/platform/logger"
	"motoreg/internal/platform/postgres"
	platformredis "motoreg/internal/platform/redis"
	"motoreg/internal/ratelimit"
	"motoreg/internal/registration"
	regmetrics "motoreg/internal/registration/metrics"
	"motoreg/internal/registration/models"
	regservice "motoreg/internal/registration/service"
	"motoreg/internal/registration/store"
	httptransport "motoreg/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	preset := buildPreset(cfg)

	// Record store: postgres when configured, in-memory otherwise.
	var recordStore regservice.RecordStore
	if cfg.PostgresURL != "" {
		pool, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres connect failed", "error", err.Error())
			os.Exit(1)
		}
		defer pool.Close()
		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("schema setup failed", "error", err.Error())
			os.Exit(1)
		}
		recordStore = pg
		log.Info("using postgres record store")
	} else {
		recordStore = store.NewMemory()
		log.Warn("no MOTOREG_POSTGRES_URL set, using in-memory record store")
	}

	// Audit: channel worker into the in-memory store, plus Kafka when
	// brokers are configured.
	auditStore := auditmemory.New()
	inbox := auditworker.NewInbox(256, log)
	worker := auditworker.New(auditStore, inbox, log)
	go worker.Run(ctx)

	publishers := audit.Fanout{inbox}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := auditpublisher.NewKafka(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka audit publisher failed", "error", err.Error())
			os.Exit(1)
		}
		defer kafka.Close()
		publishers = append(publishers, kafka)
		log.Info("audit events publishing to kafka", "topic", cfg.AuditTopic)
	}

	// Registration pipeline.
	metrics := regmetrics.New()
	svc := registration.NewService(recordStore, preset, log, metrics,
		regservice.WithAuditPublisher(publishers))
	regHandler := registration.NewHandler(svc, log)

	// Dashboard reader with its polling lifecycle.
	reader := dashservice.NewReader(recordStore, log)
	share := dashservice.NewShare(cfg.PublicBaseURL, cfg.CampaignName)
	dashHandler := dashhandler.New(reader, share, log)
	p := poller.New(reader, cfg.PollInterval, log)
	p.Start(ctx)
	defer p.Stop()

	// Submission rate limiting.
	var limitMiddleware func(http.Handler) http.Handler
	if !cfg.RateLimitDisabled {
		var limiter ratelimit.Limiter
		if rc, err := platformredis.New(ctx, cfg.RedisURL); err != nil {
			log.Error("redis connect failed", "error", err.Error())
			os.Exit(1)
		} else if rc != nil {
			defer rc.Close()
			limiter = ratelimit.NewRedisLimiter(rc.Client, cfg.RateLimitMax, cfg.RateLimitWindow)
			log.Info("using redis rate limiter")
		} else {
			limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
		}
		limitMiddleware = ratelimit.Middleware(limiter, log, false)
	}

	router := httptransport.NewRouter(log, regHandler, dashHandler, limitMiddleware)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting motoreg",
		"addr", cfg.Addr,
		"preset", preset.Name,
		"poll_interval", cfg.PollInterval.String(),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
	}
}

// buildPreset resolves the configured variant and applies any environment
// overrides for the timing knobs.
func buildPreset(cfg config.Config) models.Preset {
	p := models.PresetByName(cfg.Preset)
	if cfg.GuardTimeout > 0 {
		p.GuardTimeout = cfg.GuardTimeout
	}
	if cfg.GuardRetryPause > 0 {
		p.GuardRetryPause = cfg.GuardRetryPause
	}
	if cfg.SuccessTTL > 0 {
		p.SuccessTTL = cfg.SuccessTTL
	}
	return p
}
