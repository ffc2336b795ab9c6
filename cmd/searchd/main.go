package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/promptforge/searchd/internal/analytics"
	"github.com/promptforge/searchd/internal/config"
	dbRedis "github.com/promptforge/searchd/internal/db/redis"
	"github.com/promptforge/searchd/internal/index/local"
	"github.com/promptforge/searchd/internal/index/remote"
	logpkg "github.com/promptforge/searchd/internal/logger"
	"github.com/promptforge/searchd/internal/metrics"
	chiTransport "github.com/promptforge/searchd/internal/transport/chi"
	"github.com/promptforge/searchd/internal/transport/content"
	healthuc "github.com/promptforge/searchd/internal/usecase/health"
	indexinguc "github.com/promptforge/searchd/internal/usecase/indexing"
	searchinguc "github.com/promptforge/searchd/internal/usecase/searching"
	suggestinguc "github.com/promptforge/searchd/internal/usecase/suggesting"
	"github.com/promptforge/searchd/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// rueidis speaks RESP to both Redis and Valkey
	switch cfg.Database.Driver {
	case "redis", "valkey":
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Indexes
	localIdx := local.New()
	remoteIdx := remote.New(store, logger)
	if err := remoteIdx.EnsureSchema(ctx); err != nil {
		// Queries still work from the local index; writes retry per document.
		logger.Error("Failed to ensure remote index schema", zap.Error(err))
	}

	// Analytics recorder
	var recorder searchinguc.Recorder = analytics.NopRecorder{}
	if cfg.Analytics.Enabled {
		recorder = analytics.NewRedisRecorder(store, logger)
	}

	// Content export client for full reindexing
	contentClient := content.NewClient(&content.Config{
		BaseURL: cfg.Content.BaseURL,
		Token:   cfg.Content.Token,
		Timeout: time.Duration(cfg.Content.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	// Create use case services
	indexSvc := indexinguc.New(localIdx, remoteIdx, contentClient, metrics.IndexCollector{}, logger)
	searchSvc := searchinguc.New(remoteIdx, localIdx, localIdx, recorder, metrics.SearchCollector{}, logger,
		searchinguc.Options{
			RemoteTimeout:   time.Duration(cfg.Search.RemoteTimeoutSec) * time.Second,
			DefaultPageSize: cfg.Search.DefaultPageSize,
			MaxPageSize:     cfg.Search.MaxPageSize,
		})
	suggestSvc := suggestinguc.New(localIdx)
	healthSvc := healthuc.New(store, localIdx)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, suggestSvc, indexSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Handler())

	// Warm the local index from the content service in the background
	if cfg.Rebuild.OnStartup {
		go func() {
			time.Sleep(time.Duration(cfg.Rebuild.StartupDelaySec) * time.Second)
			n, err := indexSvc.RebuildAll(ctx)
			if err != nil {
				logger.Error("Startup rebuild failed", zap.Error(err))
				return
			}
			logger.Info("Startup rebuild finished", zap.Int("indexed", n))
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
