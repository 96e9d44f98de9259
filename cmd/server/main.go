package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"visaflow/internal/audit"
	"visaflow/internal/checklist"
	gatemetrics "visaflow/internal/gate/metrics"
	"visaflow/internal/platform/config"
	"visaflow/internal/platform/httpserver"
	"visaflow/internal/platform/logger"
	"visaflow/internal/platform/postgres"
	platformredis "visaflow/internal/platform/redis"
	"visaflow/internal/process/engine"
	processhandler "visaflow/internal/process/handler"
	processmetrics "visaflow/internal/process/metrics"
	processservice "visaflow/internal/process/service"
	processstore "visaflow/internal/process/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("visaflow stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	def := checklist.DefaultDefinition()
	if cfg.CatalogPath != "" {
		loaded, err := checklist.LoadDefinition(cfg.CatalogPath)
		if err != nil {
			return err
		}
		def = loaded
	}
	eng, err := engine.New(def)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var (
		remote     processservice.RecordStore
		profiles   processservice.ProfileStore
		auditStore audit.Store = audit.NewInMemoryStore()
		checks     []func(context.Context) error
	)
	pool, err := postgres.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
		pg := processstore.NewPostgres(pool)
		auditPG := audit.NewPostgresStore(pool)
		if cfg.Postgres.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				return err
			}
			if err := auditPG.Migrate(ctx); err != nil {
				return err
			}
		}
		remote, profiles, auditStore = pg, pg, auditPG
		checks = append(checks, pool.Ping)
		log.Info("using postgres process store")
	} else {
		remote, profiles = processstore.NewInMemoryStore(), processstore.NewInMemoryProfileStore()
		log.Warn("DATABASE_URL not set; process records and audit events are kept in memory")
	}

	opts := []processservice.Option{
		processservice.WithLogger(log),
		processservice.WithMetrics(processmetrics.New(reg)),
		processservice.WithGateMetrics(gatemetrics.New(reg)),
	}

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, processservice.WithLocalCache(processstore.NewRedisCache(redisClient.Client, cfg.Redis.TTL)))
		checks = append(checks, redisClient.Health)
		log.Info("using redis process cache", "ttl", cfg.Redis.TTL.String())
	}

	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := audit.NewKafkaSink(ctx, audit.KafkaConfig{
			Brokers:           cfg.Kafka.Brokers,
			Topic:             cfg.Kafka.Topic,
			Partitions:        cfg.Kafka.Partitions,
			ReplicationFactor: cfg.Kafka.ReplicationFactor,
		})
		if err != nil {
			return err
		}
		defer sink.Close()
		auditStore = audit.NewTeeStore(auditStore, sink)
		checks = append(checks, sink.Ping)
		log.Info("mirroring audit events to kafka", "topic", cfg.Kafka.Topic)
	}
	publisher := audit.NewPublisher(auditStore, audit.WithAsyncBuffer(cfg.Audit.Buffer), audit.WithLogger(log))
	defer publisher.Close()
	opts = append(opts, processservice.WithAuditPublisher(publisher))

	service := processservice.New(eng, remote, profiles, opts...)

	router := httpserver.NewRouter(log, reg, healthCheck(checks),
		processhandler.New(service, log),
		audit.NewHandler(publisher, log),
	)
	srv := httpserver.New(cfg.Server.Addr, router)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting visaflow", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func healthCheck(checks []func(context.Context) error) httpserver.HealthCheck {
	return func(r *http.Request) error {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				return err
			}
		}
		return nil
	}
}
