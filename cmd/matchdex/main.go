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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/talent-cloud/matchdex/internal/config"
	"github.com/talent-cloud/matchdex/internal/corpus"
	dbRedis "github.com/talent-cloud/matchdex/internal/db/redis"
	"github.com/talent-cloud/matchdex/internal/domain"
	logpkg "github.com/talent-cloud/matchdex/internal/logger"
	"github.com/talent-cloud/matchdex/internal/metrics"
	"github.com/talent-cloud/matchdex/internal/repository/embcache"
	chiTransport "github.com/talent-cloud/matchdex/internal/transport/chi"
	openaiGateway "github.com/talent-cloud/matchdex/internal/transport/openai"
	healthuc "github.com/talent-cloud/matchdex/internal/usecase/health"
	ingestuc "github.com/talent-cloud/matchdex/internal/usecase/ingest"
	searchuc "github.com/talent-cloud/matchdex/internal/usecase/search"
	"github.com/talent-cloud/matchdex/internal/version"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

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

	logger.Info("Starting matchdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("provider", cfg.Gateway.Provider),
		zap.String("corpus_path", cfg.Corpus.ProcessedPath),
	)

	// A corpus that cannot load is a structural startup failure.
	initial, err := corpus.Load(cfg.Corpus.ProcessedPath)
	if err != nil {
		logger.Fatal("Failed to load candidate corpus", zap.Error(err))
	}
	store := corpus.NewStore(initial)
	logger.Info("Candidate corpus loaded",
		zap.Int("candidates", initial.Len()),
		zap.Int("dimensions", initial.Dim()),
	)

	// Register gateway metrics explicitly (no init())
	metrics.RegisterGatewayMetrics()

	gateway := openaiGateway.NewGateway(&openaiGateway.Config{
		APIKey:         cfg.Gateway.APIKey,
		BaseURL:        cfg.Gateway.BaseURL,
		ChatModel:      cfg.Gateway.ChatModel,
		EmbeddingModel: cfg.Gateway.EmbeddingModel,
		Dimensions:     cfg.Gateway.Dimensions,
		Timeout:        time.Duration(cfg.Gateway.TimeoutSec) * time.Second,
		Provider:       cfg.Gateway.Provider,
		Logger:         logger,
	})

	// Optional embedding cache — without it every call hits the provider.
	var embedder domain.Embedder = gateway
	if len(cfg.Cache.Addrs) > 0 {
		cacheStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cacheStore.Close()

		ctx := context.Background()
		if err := cacheStore.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))

		embedder = embcache.New(
			gateway,
			cacheStore,
			time.Duration(cfg.Cache.TTLHours)*time.Hour,
			metrics.EmbeddingCacheTotal,
			logger,
		)
	}

	searchSvc := searchuc.New(store, gateway, embedder)
	ingestSvc := ingestuc.New(gateway, embedder, store, logger).
		WithMaxInFlight(cfg.Ingest.MaxInFlight)
	healthSvc := healthuc.New(store, gateway)

	server := chiTransport.NewServer(
		searchSvc, ingestSvc, healthSvc,
		cfg.Corpus.RawPath, cfg.Corpus.ProcessedPath,
		logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

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
