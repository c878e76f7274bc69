package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/notehq/notehub/internal/config"
	"github.com/notehq/notehub/internal/db"
	httpx "github.com/notehq/notehub/internal/http"
	"github.com/notehq/notehub/internal/observability"
	"github.com/notehq/notehub/internal/redisclient"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	// tracing (optional)

	if cfg.TracingEnabled {
		shutdownTracer, err := observability.InitTracer(context.Background(), "notehub", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	// database

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("could not connect to database", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	{
		ctx, cancel := config.WithTimeout(10 * time.Second)

		err := db.EnsureSchema(ctx, pool)

		cancel()

		if err != nil {
			log.Error("schema setup failed", "err", err)
			os.Exit(1)
		}
	}

	if cfg.SeedDemoUser {
		ctx, cancel := config.WithTimeout(10 * time.Second)

		err := db.EnsureDemoUser(ctx, pool)

		cancel()

		if err != nil {
			log.Error("demo user seeding failed", "err", err)
			os.Exit(1)
		}
	}

	// redis (optional, shared rate-limit counters)

	var redisClient *redisclient.Client

	if cfg.RedisAddr != "" {
		redisClient = redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		defer redisClient.Close()

		ctx, cancel := config.WithTimeout(2 * time.Second)

		err := redisClient.Ping(ctx)

		cancel()

		if err != nil {
			log.Error("could not connect to redis", "err", err)
			os.Exit(1)
		}
	}

	router := httpx.NewRouter(log, pool, redisClient, cfg)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
