package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/linkprobe/internal/config"
	"github.com/hamed0406/linkprobe/internal/httpapi"
	"github.com/hamed0406/linkprobe/internal/logging"
	"github.com/hamed0406/linkprobe/internal/probe"
)

func main() {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, "config:", e)
		}
		os.Exit(2)
	}

	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	prober := probe.NewProber(cfg.ProbeTimeout)
	prober.Logger = logger.Named("probe")

	var p httpapi.Prober = prober
	if cfg.RetryAttempts > 1 {
		p = &probe.Retrier{Inner: prober, Attempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff}
	}

	fetcher := probe.NewFetcher()
	fetcher.Logger = logger.Named("fetch")

	api := httpapi.NewServer(logger, p, fetcher)
	api.AllowedOrigins = cfg.AllowedOrigins
	api.MaxConcurrentProbes = cfg.MaxConcurrentProbes
	api.MaxBatchSize = cfg.MaxBatchSize

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.Duration("probe_timeout", cfg.ProbeTimeout),
		zap.Int("retry_attempts", cfg.RetryAttempts),
	)
	if err := http.ListenAndServe(cfg.Addr, api.Router()); err != nil {
		logger.Error("api_stopped", zap.Error(err))
		log.Fatal(err)
	}
}
