package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/mealhub/internal/auth"
	"github.com/geocoder89/mealhub/internal/catalog"
	"github.com/geocoder89/mealhub/internal/config"
	httpx "github.com/geocoder89/mealhub/internal/http"
	"github.com/geocoder89/mealhub/internal/http/handlers"
	"github.com/geocoder89/mealhub/internal/http/middlewares"
	"github.com/geocoder89/mealhub/internal/observability"
	"github.com/geocoder89/mealhub/internal/redisclient"
	"github.com/geocoder89/mealhub/internal/repo/memory"
	"github.com/geocoder89/mealhub/internal/seed"
	"github.com/geocoder89/mealhub/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	shutdownTracer, err := observability.InitTracer(rootCtx, "mealhub", cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	// registry

	var users session.UserStore
	switch cfg.RegistryMode {
	case config.RegistrySingle:
		users = memory.NewSingleSlotRegistry()
	default:
		users = memory.NewUsersRepo()
	}

	if err := seed.EnsureAdminUser(rootCtx, users, cfg, log); err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	sessions := session.NewManager(users, cfg.SessionTTL())
	go sessions.RunSweeper(rootCtx, cfg.SessionSweepInterval, prom.SetActiveSessions)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.SessionTTL())

	orders := memory.NewOrdersRepo()
	catalogRepo := memory.NewCatalogRepo()

	// menu fetch runs in the background; /readyz reports until it settles
	loader := catalog.NewLoader(
		catalog.NewHTTPMenuSource(cfg.MenuURL, cfg.MenuFetchTimeout),
		catalogRepo,
		catalog.LoaderConfig{Retries: cfg.MenuFetchRetries},
		log,
		prom,
	)
	loader.Start(rootCtx)

	deps := httpx.Deps{
		Sessions: sessions,
		Tokens:   tokens,
		Catalog:  catalogRepo,
		Orders:   orders,
		Prom:     prom,
		Gatherer: reg,
	}

	var rdb *redisclient.Client
	if cfg.RedisAddr != "" {
		rdb = redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		deps.LimitStore = middlewares.NewRedisLimitStore(rdb.Limiter(), cfg.AuthRateLimit, cfg.AuthRateWindow)
		deps.ReadyChecks = append(deps.ReadyChecks, handlers.ReadinessCheck{Name: "redis", Check: rdb.Ping})
		log.Info("auth rate limit backed by redis", "addr", cfg.RedisAddr)
	}

	// set up routers with the log
	router := httpx.NewRouter(log, cfg, deps)

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
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "registry", cfg.RegistryMode)
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

	// stops an in-flight menu fetch
	cancelRoot()

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}

		if rdb != nil {
			_ = rdb.Close()
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
