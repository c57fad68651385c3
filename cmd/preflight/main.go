// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/linkprobe/internal/config"
)

func main() {
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()

	if errs := multierr.Errors(cfg.Validate()); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, "✖", e)
		}
		os.Exit(1)
	}

	// Values FromEnv silently replaced with defaults.
	for _, name := range []string{"PROBE_TIMEOUT_SECONDS", "RETRY_ATTEMPTS", "RETRY_BACKOFF_MS", "MAX_CONCURRENT_PROBES", "MAX_BATCH_SIZE"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" && strings.Trim(v, "0123456789") != "" {
			warn(name + "=" + v + " is not a number; the default is used.")
		}
	}

	ok("API_ADDR=" + cfg.Addr)
	ok("LOG_DIR=" + cfg.LogDir + " LOG_LEVEL=" + cfg.LogLevel)
	ok(fmt.Sprintf("probe timeout %v, %d attempt(s), backoff %v", cfg.ProbeTimeout, cfg.RetryAttempts, cfg.RetryBackoff))

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; every origin may call the API.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	ok("preflight passed")
}
