package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/nexfone/portfix/internal/fixer/app"
	"github.com/nexfone/portfix/internal/fixer/middleware"
	mariadbRepo "github.com/nexfone/portfix/internal/fixer/repository/mariadb"
	pgRepo "github.com/nexfone/portfix/internal/fixer/repository/postgres"
	redisRepo "github.com/nexfone/portfix/internal/fixer/repository/rediscache"
	httptransport "github.com/nexfone/portfix/internal/fixer/transport/http"
	"github.com/nexfone/portfix/internal/platform/cache"
	"github.com/nexfone/portfix/internal/platform/config"
	"github.com/nexfone/portfix/internal/platform/database"
	"github.com/nexfone/portfix/internal/platform/logger"
)

const (
	serviceName     = "portfix"
	shutdownTimeout = 15 * time.Second
)

func main() {
	mainCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger = appLogger.With("service", serviceName)
	appLogger.Info("Starting service...",
		"log_level", cfg.LogLevel,
		"port", cfg.ServerPort,
		"redis_db", cfg.RedisDB,
	)

	// Number-pool backend (Postgres)
	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to initialize Postgres connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Postgres connection pool initialized")

	// Routing cache backend (Redis)
	redisClient, err := cache.NewRedisClient(mainCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		appLogger.Error("Failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	appLogger.Info("Redis client connected", "addr", cfg.RedisAddr, "db", cfg.RedisDB)

	// Provisioning backend (MariaDB)
	mariaDB, err := database.NewMariaDBPool(mainCtx, cfg.MariaDBDSN)
	if err != nil {
		appLogger.Error("Failed to initialize MariaDB connection pool", "error", err)
		os.Exit(1)
	}
	defer mariaDB.Close()
	appLogger.Info("MariaDB connection pool initialized")

	// Application components
	numberPoolRepo := pgRepo.NewPgNumberPoolRepository(dbPool, appLogger)
	routingCacheRepo := redisRepo.NewRedisRoutingCacheRepository(redisClient, appLogger)
	provisioningRepo := mariadbRepo.NewMariaDBProvisioningRepository(mariaDB, appLogger)
	application := app.NewApplication(numberPoolRepo, routingCacheRepo, provisioningRepo, appLogger)

	validate := validator.New()
	fixHandler := httptransport.NewFixHandler(application, appLogger, validate)
	authMW := middleware.APITokenMiddleware(cfg.APIToken, appLogger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(httptransport.PrometheusMetricsMiddleware)

	// Operator page and liveness, unauthenticated.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(cfg.StaticDir, "index.html"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Fix endpoints behind the shared-secret gate.
	r.Group(func(gr chi.Router) {
		gr.Use(authMW)
		fixHandler.RegisterRoutes(gr)
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		appLogger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		appLogger.Info("Shutdown signal received, shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Service exited with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Service shut down gracefully.")
}
