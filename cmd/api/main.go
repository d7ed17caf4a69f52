package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"votes-api/internal/adapters/auth/jwtauth"
	"votes-api/internal/adapters/policy/policyfile"
	"votes-api/internal/adapters/sinks/kafkarelay"
	"votes-api/internal/adapters/sinks/redisrelay"
	"votes-api/internal/adapters/sinks/webhook"
	pg "votes-api/internal/adapters/storage/postgres"
	"votes-api/internal/domain/agecheck"
	"votes-api/internal/listeners"
	"votes-api/internal/platform/config"
	"votes-api/internal/platform/logger"
	"votes-api/internal/platform/metrics"
	"votes-api/internal/platform/notifier"
	"votes-api/internal/platform/redis"
	"votes-api/internal/ports/auth"
	"votes-api/internal/router"

	"golang.org/x/sync/errgroup"
)

const relayTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "votes-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(nil)
	n := notifier.New(log, notifier.WithObserver(listeners.MetricsObserver{M: m}))
	listeners.RegisterLogging(n, log)
	listeners.RegisterMetrics(n, m)

	health := map[string]router.HealthCheck{}

	// Sinks opcionales
	if cfg.NotifyWebhookURL != "" {
		sink, err := webhook.New(webhook.Config{
			URL:     cfg.NotifyWebhookURL,
			Source:  cfg.AppName,
			Timeout: cfg.NotifyWebhookTimeout,
		})
		if err != nil {
			return err
		}
		listeners.Relay(n, "webhook", relayTimeout, sink.Handle)
		log.Info("webhook sink enabled", map[string]any{"url": cfg.NotifyWebhookURL})
	}

	rdb, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		relay, err := redisrelay.New(rdb, cfg.RedisChannel, cfg.AppName)
		if err != nil {
			return err
		}
		listeners.Relay(n, "redis", relayTimeout, relay.Handle)
		health["redis"] = rdb.Health
		log.Info("redis relay enabled", map[string]any{"channel": cfg.RedisChannel})
	}

	if len(cfg.KafkaBrokers) > 0 {
		client, err := kafkarelay.NewClient(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		relay, err := kafkarelay.New(client, cfg.KafkaTopic, cfg.AppName)
		if err != nil {
			client.Close()
			return err
		}
		defer relay.Close()
		listeners.Relay(n, "kafka", relayTimeout, relay.Handle)
		log.Info("kafka relay enabled", map[string]any{"topic": cfg.KafkaTopic})
	}

	// Tokens: sin signing key queda modo dev (X-Debug-User-ID)
	var (
		verifier auth.AuthVerifier
		issuer   auth.TokenIssuer
	)
	if cfg.JWTSigningKey != "" {
		tokens, err := jwtauth.New(jwtauth.Config{
			SigningKey: cfg.JWTSigningKey,
			Issuer:     cfg.JWTIssuer,
			TTL:        cfg.TokenTTL,
		})
		if err != nil {
			return err
		}
		verifier, issuer = tokens, tokens
	} else {
		log.Warn("JWT_SIGNING_KEY not set, running in dev auth mode", nil)
	}

	policies, err := policyfile.Load(cfg.AgePolicyFile, agecheck.Policy{MinAge: cfg.MinVotingAge})
	if err != nil {
		return err
	}
	log.Info("age policy loaded", map[string]any{
		"min_age":   cfg.MinVotingAge,
		"overrides": policies.Overrides(),
	})

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.DBAutoSchema {
			if err := pg.EnsureSchema(ctx, db); err != nil {
				return err
			}
		}
		health["postgres"] = db.PingContext
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: router.NewRouter(router.Options{
			AuthVerifier: verifier,
			TokenIssuer:  issuer,
			DB:           db,
			Notifier:     n,
			Logger:       log,
			Metrics:      m,
			Policies:     policies,
			HealthChecks: health,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", map[string]any{"addr": cfg.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		// entregas async pendientes a sinks
		if err := n.Drain(shutdownCtx); err != nil {
			log.Warn("notifier drain incomplete", map[string]any{"error": err.Error()})
		}
		return nil
	})

	return g.Wait()
}
