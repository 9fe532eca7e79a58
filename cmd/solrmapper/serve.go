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
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/compiler"
	"github.com/openark/solrmapper/internal/config"
	"github.com/openark/solrmapper/internal/extract"
	"github.com/openark/solrmapper/internal/indexer"
	logpkg "github.com/openark/solrmapper/internal/logger"
	"github.com/openark/solrmapper/internal/metrics"
	"github.com/openark/solrmapper/internal/solr/client"
	chiTransport "github.com/openark/solrmapper/internal/transport/chi"
	healthuc "github.com/openark/solrmapper/internal/usecase/health"
	searchuc "github.com/openark/solrmapper/internal/usecase/search"
	"github.com/openark/solrmapper/internal/version"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting solrmapper API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("solr_url", cfg.Solr.BaseURL),
		zap.String("core", cfg.Solr.Core),
	)

	engine, err := client.New(client.Config{
		BaseURL:  cfg.Solr.BaseURL,
		Core:     cfg.Solr.Core,
		Username: cfg.Solr.Username,
		Password: cfg.Solr.Password,
		Timeout:  time.Duration(cfg.Solr.TimeoutSec) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create engine client: %w", err)
	}

	ctx := context.Background()
	if err := engine.WaitForReady(ctx, time.Duration(cfg.Solr.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("engine not ready: %w", err)
	}
	logger.Info("Connected to engine")

	metrics.Register()

	maps, err := cfg.BuildMappings()
	if err != nil {
		return fmt.Errorf("build mappings: %w", err)
	}

	// No resolver in standalone mode: maps carrying a resources
	// query admit every value until the host application plugs a
	// resolver in through the library facade.
	session := extract.NewSession(nil, logger)

	ix := indexer.New(engine, maps, session, indexer.Config{
		BatchSize:     cfg.Index.BatchSize,
		ServerScope:   cfg.Index.ServerScope,
		IndexScope:    cfg.Index.Scope,
		ExtraRequired: cfg.Index.ExtraRequired,
		RetryDelay:    time.Duration(cfg.Index.RetryDelaySec) * time.Second,
	}, logger)

	searchSvc := searchuc.New(engine, maps, compiler.Config{
		IndexScope:  cfg.Index.Scope,
		PublicOnly:  cfg.Search.PublicOnly,
		SiteID:      cfg.Search.SiteID,
		DefaultRows: cfg.Search.DefaultRows,
		MaxRows:     cfg.Search.MaxRows,
		MaxClauses:  cfg.Search.MaxClauses,
		TextFields:  cfg.Search.TextFields,
		Boosts:      cfg.Search.Boosts,
	}, logger)

	healthSvc := healthuc.New(engine, engine)

	server := chiTransport.NewServer(searchSvc, ix, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

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
	return nil
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

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
