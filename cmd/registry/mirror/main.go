package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cipherhire/cipherhire-backend/internal/metrics"
	"github.com/cipherhire/cipherhire-backend/internal/mirror"
	"github.com/cipherhire/cipherhire-backend/internal/registry"
	"github.com/cipherhire/cipherhire-backend/internal/registry/index"
	"github.com/cipherhire/cipherhire-backend/internal/registry/ledger"
	"github.com/cipherhire/cipherhire-backend/internal/repository/clickhouse"
)

type config struct {
	ClickhouseDSN  string        `long:"clickhouse-dsn" env:"MIRROR_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	LedgerEndpoint string        `long:"ledger-endpoint" env:"MIRROR_LEDGER_ENDPOINT" description:"ledger gateway url" default:"http://127.0.0.1:8545"`
	LedgerAccount  string        `long:"ledger-account" env:"MIRROR_LEDGER_ACCOUNT" description:"signer address for intent repair"`
	HTTPTimeout    time.Duration `long:"http-timeout" env:"MIRROR_HTTP_TIMEOUT" description:"ledger request timeout" default:"30s"`
	MetricsAddr    string        `long:"metrics-addr" env:"MIRROR_METRICS_ADDR" description:"address for metrics server" default:":2112"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	_ = godotenv.Load()
	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if cfg.ClickhouseDSN == "" {
		logger.Fatal("ClickHouse DSN is required")
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("registry mirror failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}

	led, err := ledger.NewRPCClient(cfg.LedgerEndpoint, cfg.LedgerAccount, cfg.HTTPTimeout, metrics.NewLedgerClient())
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}
	idx, err := index.NewManager(led, logger.Named("index"))
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	sync, err := registry.NewSynchronizer(led, idx, metrics.NewSynchronizer(), logger.Named("registry"))
	if err != nil {
		return fmt.Errorf("init synchronizer: %w", err)
	}

	svc, err := mirror.NewService(sync, repo, metrics.NewMirrorIngester(), logger.Named("mirror"))
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
