package main

import (
	"context"
	"errors"
	"flag"
	"io"

	"golang.org/x/time/rate"

	"github.com/mr-zlaam/googleMapScraper/browser"
	"github.com/mr-zlaam/googleMapScraper/config"
	"github.com/mr-zlaam/googleMapScraper/engine"
	"github.com/mr-zlaam/googleMapScraper/extractor"
	"github.com/mr-zlaam/googleMapScraper/loader"
	"github.com/mr-zlaam/googleMapScraper/output"
	"github.com/mr-zlaam/googleMapScraper/webhook"
)

// runScrape loads the targets, extracts every one of them and writes both
// tables. Configuration and input problems exit before the browser starts.
func runScrape(args []string, stdout, stderr io.Writer) int {
	// ── 1. Configuration: defaults < env < flags ────────────────────
	cfg := config.Load()

	fs := flag.NewFlagSet("scrape", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Run.InputPath, "input", cfg.Run.InputPath, "JSON array of target URLs")
	fs.StringVar(&cfg.Run.OutputPath, "output", cfg.Run.OutputPath, "success table (.csv, or .json for a JSON array)")
	fs.StringVar(&cfg.Run.FailedPath, "failed", cfg.Run.FailedPath, "failure manifest CSV")
	fs.IntVar(&cfg.Run.MaxConcurrent, "max-concurrent", cfg.Run.MaxConcurrent, "maximum in-flight extractions")
	fs.IntVar(&cfg.Run.BatchSize, "batch-size", cfg.Run.BatchSize, "targets launched per batch")
	fs.IntVar(&cfg.Run.URLLimit, "url-limit", cfg.Run.URLLimit, "maximum targets read from the input")
	fs.DurationVar(&cfg.Run.NavigationTimeout, "nav-timeout", cfg.Run.NavigationTimeout, "navigation plus initial load timeout per target")
	fs.Float64Var(&cfg.Run.NavigationRate, "nav-rate", cfg.Run.NavigationRate, "navigations per second across the run (0 disables pacing)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	// ── 2. Logging ──────────────────────────────────────────────────
	logger := initLogger(cfg.Log, stdout)

	// ── 3. Validate and load before touching the browser ────────────
	if err := cfg.Run.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}
	targets, err := loader.Load(cfg.Run.InputPath, cfg.Run.URLLimit)
	if err != nil {
		logger.Error("failed to load targets", "path", cfg.Run.InputPath, "error", err)
		return 1
	}
	logger.Info("loaded targets",
		"count", len(targets),
		"limit", cfg.Run.URLLimit,
		"path", cfg.Run.InputPath,
	)

	// ── 4. Browser ──────────────────────────────────────────────────
	sess, err := browser.Launch(cfg.Browser, logger)
	if err != nil {
		logger.Error("failed to launch browser", "error", err)
		return 1
	}

	// ── 5. Extract ──────────────────────────────────────────────────
	ctx := context.Background()
	limiter := engine.NewLimiter(cfg.Run.MaxConcurrent)

	opts := []extractor.Option{
		extractor.WithNavigationTimeout(cfg.Run.NavigationTimeout),
		extractor.WithLogger(logger),
	}
	if cfg.Run.NavigationRate > 0 {
		opts = append(opts, extractor.WithPacer(rate.NewLimiter(rate.Limit(cfg.Run.NavigationRate), 1)))
	}
	ex := extractor.New(sess, limiter, opts...)

	logger.Info("scrape starting",
		"targets", len(targets),
		"maxConcurrent", limiter.Size(),
		"batchSize", cfg.Run.BatchSize,
		"navTimeout", cfg.Run.NavigationTimeout,
	)
	outcome := engine.NewScheduler(ex, cfg.Run.BatchSize, logger).Run(ctx, targets)
	sess.Close()

	// ── 6. Persist ──────────────────────────────────────────────────
	if err := output.WriteSucceeded(cfg.Run.OutputPath, outcome); err != nil {
		logger.Error("failed to write output", "error", err)
		return 1
	}
	if err := output.WriteFailed(cfg.Run.FailedPath, outcome); err != nil {
		logger.Error("failed to write failed links", "error", err)
		return 1
	}

	summary := output.Summarize(outcome, cfg.Run.OutputPath, cfg.Run.FailedPath)
	output.LogSummary(logger, summary)

	// ── 7. Notify ───────────────────────────────────────────────────
	webhook.Notify(ctx, logger, cfg.Webhook.URL, cfg.Webhook.Secret,
		webhook.NewEvent(webhook.EventRunCompleted, summary))

	return 0
}
