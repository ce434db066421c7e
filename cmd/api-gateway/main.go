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
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/cipherhire/cipherhire-backend/internal/metrics"
	"github.com/cipherhire/cipherhire-backend/internal/registry"
	"github.com/cipherhire/cipherhire-backend/internal/registry/index"
	"github.com/cipherhire/cipherhire-backend/internal/registry/ledger"
	"github.com/cipherhire/cipherhire-backend/internal/transport"
)

type config struct {
	RestAddr       string        `long:"rest-addr" env:"API_GATEWAY_REST_ADDR" description:"rest addr" default:":8001"`
	LedgerMode     string        `long:"ledger-mode" env:"API_GATEWAY_LEDGER_MODE" description:"ledger backend" choice:"rpc" choice:"memory" default:"rpc"`
	LedgerEndpoint string        `long:"ledger-endpoint" env:"API_GATEWAY_LEDGER_ENDPOINT" description:"ledger gateway url" default:"http://127.0.0.1:8545"`
	LedgerAccount  string        `long:"ledger-account" env:"API_GATEWAY_LEDGER_ACCOUNT" description:"signer address for writes"`
	HTTPTimeout    time.Duration `long:"http-timeout" env:"API_GATEWAY_HTTP_TIMEOUT" description:"ledger request timeout" default:"30s"`
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

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("api gateway failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	led, err := newLedger(cfg)
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
	handler, err := transport.NewRegistryHandler(sync, logger.Named("http"))
	if err != nil {
		return fmt.Errorf("init handler: %w", err)
	}

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              cfg.RestAddr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", cfg.RestAddr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newLedger(cfg config) (registry.Ledger, error) {
	if cfg.LedgerMode == "memory" {
		return ledger.NewMemory(), nil
	}
	return ledger.NewRPCClient(cfg.LedgerEndpoint, cfg.LedgerAccount, cfg.HTTPTimeout, metrics.NewLedgerClient())
}
