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

	"github.com/geocoder89/producthub/internal/auth"
	"github.com/geocoder89/producthub/internal/cache"
	"github.com/geocoder89/producthub/internal/config"
	"github.com/geocoder89/producthub/internal/db"
	httpx "github.com/geocoder89/producthub/internal/http"
	"github.com/geocoder89/producthub/internal/observability"
	"github.com/geocoder89/producthub/internal/redisclient"
	"github.com/geocoder89/producthub/internal/repo/postgres"
	"github.com/geocoder89/producthub/internal/repo/sqlite"
	"github.com/geocoder89/producthub/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type stores struct {
	users      service.UserStore
	categories service.CategoryStore
	products   service.ProductStore
	ping       func() error
	close      func()
}

func main() {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx := context.Background()

	tracing := cfg.OTELEndpoint != ""
	if tracing {
		shutdownTracer, err := observability.InitTracer(ctx, "producthub", cfg.Env, cfg.OTELEndpoint)
		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			sctx, cancel := config.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracer(sctx)
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	st, err := openStores(ctx, cfg, prom)
	if err != nil {
		log.Error("storage init failed", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	defer st.close()

	if err := db.EnsureAdminUser(ctx, st.users, cfg); err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}
	if err := db.EnsureCategories(ctx, st.categories, cfg.SeedCategories); err != nil {
		log.Error("category seed failed", "err", err)
		os.Exit(1)
	}

	readCache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		log.Error("cache init failed", "backend", cfg.CacheBackend, "err", err)
		os.Exit(1)
	}
	defer closeCache()

	tokens, err := auth.NewManager()
	if err != nil {
		log.Error("token manager init failed", "err", err)
		os.Exit(1)
	}

	accounts := service.NewAuth(st.users, tokens)
	catalog := service.NewCatalog(st.products, st.categories, readCache, prom, log)

	// set up routers with the log
	router := httpx.NewRouter(log, cfg, httpx.Deps{
		Accounts:      accounts,
		Authenticator: accounts,
		Catalog:       catalog,
		Ping:          st.ping,
		Prom:          prom,
		Gatherer:      reg,
		Tracing:       tracing,
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
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "db", cfg.DBDriver, "cache", cfg.CacheBackend)
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

		sctx, cancel := config.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

func openStores(ctx context.Context, cfg config.Config, prom *observability.Prom) (stores, error) {
	switch cfg.DBDriver {
	case "sqlite":
		handle, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return stores{}, err
		}

		return stores{
			users:      sqlite.NewUsersRepo(handle, prom),
			categories: sqlite.NewCategoriesRepo(handle, prom),
			products:   sqlite.NewProductsRepo(handle, prom),
			ping: func() error {
				pctx, cancel := config.WithTimeout(context.Background(), time.Second)
				defer cancel()
				return handle.PingContext(pctx)
			},
			close: func() { _ = handle.Close() },
		}, nil

	default:
		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return stores{}, err
		}

		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return stores{}, err
		}

		return stores{
			users:      postgres.NewUsersRepo(pool, prom),
			categories: postgres.NewCategoriesRepo(pool, prom),
			products:   postgres.NewProductsRepo(pool, prom),
			ping: func() error {
				pctx, cancel := config.WithTimeout(context.Background(), time.Second)
				defer cancel()
				return pool.Ping(pctx)
			},
			close: pool.Close,
		}, nil
	}
}

func openCache(ctx context.Context, cfg config.Config) (cache.Store, func(), error) {
	if cfg.CacheBackend != "redis" {
		return cache.New(cfg.CacheTTL), func() {}, nil
	}

	client, err := redisclient.Connect(ctx, redisclient.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}

	return cache.NewRedisCache(client.Raw(), "producthub:catalog", cfg.CacheTTL), func() { _ = client.Close() }, nil
}
