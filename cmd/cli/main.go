package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/hamed0406/linkprobe/internal/config"
	"github.com/hamed0406/linkprobe/internal/logging"
	"github.com/hamed0406/linkprobe/internal/probe"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cli <domain> [path ...]")
	fmt.Fprintln(os.Stderr, "       cli -links <url>")
	flag.PrintDefaults()
}

func main() {
	links := flag.String("links", "", "print the links found on this page instead of probing")
	flag.Usage = usage
	flag.Parse()
	os.Exit(run(*links, flag.Args()))
}

func run(links string, args []string) int {
	cfg := config.FromEnv()
	logger, err := logging.NewConsoleLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if links != "" {
		return printLinks(ctx, logger, links)
	}

	if len(args) < 1 {
		usage()
		return 2
	}
	domain, paths := args[0], args[1:]
	if len(paths) == 0 {
		paths = []string{"/"}
	}

	p := probe.NewProber(cfg.ProbeTimeout)
	p.Logger = logger

	code := 0
	for _, st := range p.URLStatusAll(ctx, domain, paths, cfg.MaxConcurrentProbes) {
		fmt.Println(st)
		if !st.OK() {
			code = 1
		}
	}
	return code
}

func printLinks(ctx context.Context, logger *zap.Logger, raw string) int {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		fmt.Fprintln(os.Stderr, "Invalid URL.")
		return 2
	}

	f := probe.NewFetcher()
	f.Logger = logger
	out, err := f.FetchAllURLs(ctx, u)
	if err != nil {
		logger.Error("fetch_failed", zap.String("url", raw), zap.Error(err))
		return 1
	}
	for _, l := range out {
		fmt.Println(l)
	}
	return 0
}
