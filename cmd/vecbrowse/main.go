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

	"github.com/kailas-cloud/vecbrowse/internal/commands"
	"github.com/kailas-cloud/vecbrowse/internal/config"
	logpkg "github.com/kailas-cloud/vecbrowse/internal/logger"
	"github.com/kailas-cloud/vecbrowse/internal/metrics"
	"github.com/kailas-cloud/vecbrowse/internal/repository/vectorstore"
	chiTransport "github.com/kailas-cloud/vecbrowse/internal/transport/chi"
	s3vt "github.com/kailas-cloud/vecbrowse/internal/transport/s3vectors"
	healthuc "github.com/kailas-cloud/vecbrowse/internal/usecase/health"
	listinguc "github.com/kailas-cloud/vecbrowse/internal/usecase/listing"
	"github.com/kailas-cloud/vecbrowse/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting vecbrowse API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("default_region", cfg.AWS.DefaultRegion),
		zap.String("aws_profile", cfg.AWS.Profile),
		zap.String("endpoint_url", cfg.AWS.EndpointURL),
	)

	// Register remote call metrics explicitly (no init())
	metrics.RegisterRemoteMetrics()

	// Composition root: client factory -> repository -> use case -> commands
	clients := s3vt.NewClientFactory(s3vt.Config{
		Provider:      s3vt.EnvConfigProvider{Profile: cfg.AWS.Profile},
		EndpointURL:   cfg.AWS.EndpointURL,
		DefaultRegion: cfg.AWS.DefaultRegion,
	})
	repo := vectorstore.New(clients)
	listingSvc := listinguc.New(repo, cfg.Listing.MaxPages)
	cmds := commands.New(listingSvc)
	healthSvc := healthuc.New(clients)

	server := chiTransport.NewServer(cmds, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.APIKeyAuth(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
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

			// Per-request logger, picked up by the command layer
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.Into(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", chi.RouteContext(r.Context()).RoutePattern()),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
				zap.String("next_token", ww.Header().Get(chiTransport.NextTokenHeader)),
			)
		})
	}
}
