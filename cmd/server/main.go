// Command server starts the ATS screener HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ats-screener/internal/adapter/ai/openai"
	"github.com/fairyhunter13/ats-screener/internal/adapter/ai/stub"
	"github.com/fairyhunter13/ats-screener/internal/adapter/artifacts"
	"github.com/fairyhunter13/ats-screener/internal/adapter/cache"
	httpserver "github.com/fairyhunter13/ats-screener/internal/adapter/httpserver"
	"github.com/fairyhunter13/ats-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ats-screener/internal/adapter/repo/postgres"
	tikaext "github.com/fairyhunter13/ats-screener/internal/adapter/textextractor/tika"
	"github.com/fairyhunter13/ats-screener/internal/app"
	"github.com/fairyhunter13/ats-screener/internal/config"
	"github.com/fairyhunter13/ats-screener/internal/domain"
	"github.com/fairyhunter13/ats-screener/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Model artifacts are loaded once; the server refuses to start without them.
	weights, err := artifacts.LoadWeights(cfg.WeightsPath, cfg.BiasPath)
	if err != nil {
		slog.Error("weight artifact load failed", slog.Any("error", err))
		os.Exit(1)
	}
	coeffs, err := artifacts.LoadCoefficients(cfg.CoefficientsPath)
	if err != nil {
		slog.Error("coefficient artifact load failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()

	// Report storage is optional; without a DB the API still scores but
	// reports are not retrievable later.
	var reports domain.ReportRepository
	var pool app.Pinger
	if cfg.DBURL != "" {
		p, err := postgres.NewPool(ctx, cfg.DBURL)
		if err != nil {
			slog.Error("db connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer p.Close()
		reports = postgres.NewReportRepo(p)
		pool = p
	}

	// Analyzer/embedder: real client when a key is configured, otherwise the
	// deterministic stub so the engine stays fully functional offline.
	var analyzer domain.Analyzer
	var embedder domain.Embedder
	if cfg.AIEnabled() {
		cl := openai.New(cfg)
		analyzer, embedder = cl, cl
	} else {
		slog.Warn("no AI key configured, using deterministic stub client")
		cl := stub.New()
		analyzer, embedder = cl, cl
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		embedder = cache.NewEmbedCache(embedder, rdb, cfg.RedisEmbedTTL)
	}

	batchSvc, err := usecase.NewBatchService(weights, coeffs, analyzer, embedder, cfg.BatchConcurrency, cfg.AnalyzerTimeout)
	if err != nil {
		slog.Error("batch service init failed", slog.Any("error", err))
		os.Exit(1)
	}

	ext := tikaext.New(cfg.TikaURL)
	dbCheck, redisCheck, tikaCheck := app.BuildReadinessChecks(cfg, pool, rdb)

	srv := httpserver.NewServer(cfg, batchSvc, reports, ext, dbCheck, redisCheck, tikaCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
