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

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/db"
	httpx "github.com/geocoder89/userhub/internal/http"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/redisclient"
	"github.com/geocoder89/userhub/internal/repo"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// .env is optional; real env vars win
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}

	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	startCtx, cancelStart := config.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()

	tracing := false
	if cfg.OTelEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(startCtx, observability.TracerConfig{
			ServiceName: "userhub",
			Endpoint:    cfg.OTelEndpoint,
			Env:         cfg.Env,
		})
		if err != nil {
			log.Error("otel init failed", "err", err)
		} else {
			tracing = true
			defer func() {
				ctx, cancel := config.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	// database connection; failure is fatal
	backend, err := db.Open(startCtx, cfg, log)
	if err != nil {
		log.Error("database connection failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	log.Info("database connected", "driver", backend.Name)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	backend = repo.Instrument(backend, prom)

	created, err := db.EnsureAdminUser(startCtx, backend.Users, cfg)
	if err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}
	if created {
		log.Info("admin user created", "email", cfg.AdminEmail)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		// only reachable with the memory store; tokens die with the process
		secret = uuid.NewString()
		log.Warn("JWT_SECRET not set, using an ephemeral secret")
	}
	jwtManager := auth.NewManager(secret, cfg.TokenTTL())

	var limiter middlewares.Counter = middlewares.NewMemoryCounter()
	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rc.Close()

		if err := rc.Ping(startCtx); err != nil {
			log.Warn("redis unreachable, rate limiting fails open until it recovers", "err", err)
		}
		limiter = rc
	}

	// set up routers with the log
	router := httpx.NewRouter(log, httpx.Deps{
		Cfg:      cfg,
		Backend:  backend,
		JWT:      jwtManager,
		Limiter:  limiter,
		Prom:     prom,
		Gatherer: reg,
		Tracing:  tracing,
	})

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

		ctx, cancel := config.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := backend.Close(ctx); err != nil {
			log.Error("database close failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
