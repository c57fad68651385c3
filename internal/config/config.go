package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Addr                string        // API bind address, e.g., "127.0.0.1:8080" or ":8080" (Docker)
	LogDir              string        // logs directory
	LogLevel            string        // debug, info, warn, error
	ProbeTimeout        time.Duration // wall-clock bound of one probe
	RetryAttempts       int           // probes per URL before giving up on transient failures
	RetryBackoff        time.Duration // backoff between retries
	MaxConcurrentProbes int           // in-flight probes per batch request
	MaxBatchSize        int           // paths accepted by one batch request
	AllowedOrigins      []string      // CORS origins; empty allows all
}

func FromEnv() Config {
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	// Probe timeout in whole seconds
	probeTimeout := 10 * time.Second
	if v := os.Getenv("PROBE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			probeTimeout = time.Duration(n) * time.Second
		}
	}

	// Retry tuning; 1 attempt means no retry
	retryAttempts := 1
	if v := os.Getenv("RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			retryAttempts = n
		}
	}

	retryBackoff := 300 * time.Millisecond
	if v := os.Getenv("RETRY_BACKOFF_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			retryBackoff = time.Duration(ms) * time.Millisecond
		}
	}

	maxConcurrent := 8
	if v := os.Getenv("MAX_CONCURRENT_PROBES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxConcurrent = n
		}
	}

	maxBatch := 100
	if v := os.Getenv("MAX_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxBatch = n
		}
	}

	return Config{
		Addr:                addr,
		LogDir:              logDir,
		LogLevel:            logLevel,
		ProbeTimeout:        probeTimeout,
		RetryAttempts:       retryAttempts,
		RetryBackoff:        retryBackoff,
		MaxConcurrentProbes: maxConcurrent,
		MaxBatchSize:        maxBatch,
		AllowedOrigins:      splitList(os.Getenv("ALLOWED_ORIGINS")),
	}
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var err error
	if strings.TrimSpace(c.Addr) == "" {
		err = multierr.Append(err, errors.New("API_ADDR is empty"))
	}
	if strings.TrimSpace(c.LogDir) == "" {
		err = multierr.Append(err, errors.New("LOG_DIR is empty"))
	}
	if _, lerr := zapcore.ParseLevel(c.LogLevel); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("LOG_LEVEL: %w", lerr))
	}
	if c.ProbeTimeout < time.Second || c.ProbeTimeout%time.Second != 0 {
		err = multierr.Append(err, fmt.Errorf("PROBE_TIMEOUT_SECONDS must be a positive whole number of seconds, got %v", c.ProbeTimeout))
	}
	if c.RetryAttempts < 1 {
		err = multierr.Append(err, fmt.Errorf("RETRY_ATTEMPTS must be >= 1, got %d", c.RetryAttempts))
	}
	if c.RetryBackoff < 0 {
		err = multierr.Append(err, fmt.Errorf("RETRY_BACKOFF_MS must be >= 0, got %v", c.RetryBackoff))
	}
	if c.MaxConcurrentProbes < 1 {
		err = multierr.Append(err, fmt.Errorf("MAX_CONCURRENT_PROBES must be >= 1, got %d", c.MaxConcurrentProbes))
	}
	if c.MaxBatchSize < 1 {
		err = multierr.Append(err, fmt.Errorf("MAX_BATCH_SIZE must be >= 1, got %d", c.MaxBatchSize))
	}
	for _, o := range c.AllowedOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			err = multierr.Append(err, fmt.Errorf("ALLOWED_ORIGINS: %q is not an http(s) origin", o))
		}
	}
	return err
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
