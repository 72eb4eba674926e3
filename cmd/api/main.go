package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/T1-hotae/cursor-memo-db/internal/config"
	"github.com/T1-hotae/cursor-memo-db/internal/db"
	httpx "github.com/T1-hotae/cursor-memo-db/internal/http"
	"github.com/T1-hotae/cursor-memo-db/internal/http/handlers"
	"github.com/T1-hotae/cursor-memo-db/internal/observability"
	"github.com/T1-hotae/cursor-memo-db/internal/redisclient"
	"github.com/T1-hotae/cursor-memo-db/internal/repo/memory"
	"github.com/T1-hotae/cursor-memo-db/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		// config failures (missing signing secret) are fatal at startup
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// tracing is optional; only wired when an OTLP endpoint is configured
	var traceShutdown func(context.Context) error

	if cfg.OTelEndpoint != "" {
		traceShutdown, err = observability.InitTracer(context.Background(), "memodb-api", cfg.OTelEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
	}

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// credential store: postgres normally, in-memory when DB_DISABLE=1
	var store handlers.UserStore
	dbPing := func() error { return nil }

	if cfg.DBDisabled {
		log.Warn("running with in-memory credential store; accounts do not survive restarts")
		store = memory.NewUsersRepo()
	} else {
		pool, err := db.NewPool(cfg.DBURL)

		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}

		defer pool.Close()

		initCtx, cancel := config.WithTimeout(5 * time.Second)

		if err := db.EnsureSchema(initCtx, pool); err != nil {
			cancel()
			log.Error("schema ensure failed", "err", err)
			os.Exit(1)
		}
		cancel()

		store = postgres.NewUsersRepo(pool, prom)

		dbPing = func() error {
			ctx, cancel := config.WithTimeout(time.Second)
			defer cancel()
			return pool.Ping(ctx)
		}
	}

	// redis backs the shared rate limiter when configured
	var rdb *redisclient.Client

	if cfg.RedisAddr != "" {
		rdb = redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		defer rdb.Close()
	}

	router := httpx.NewRouter(store, rdb, reg, prom, dbPing, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
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

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		if traceShutdown != nil {
			if err := traceShutdown(ctx); err != nil {
				log.Error("tracer shutdown failed", "err", err)
			}
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
