// Package extractor visits one target page and pulls a place record out of it.
//
// Failures are contained at two levels. A field that cannot be read falls
// back to its default and never affects the other fields. A page that
// cannot be opened or loaded downgrades only that target to a failed result
// carrying a fallback name derived from its URL.
package extractor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/mr-zlaam/googleMapScraper/models"
)

const (
	// DefaultNavigationTimeout bounds navigation plus initial load.
	DefaultNavigationTimeout = 60 * time.Second

	// DefaultQueryTimeout bounds page queries made after the load completed.
	DefaultQueryTimeout = 10 * time.Second
)

// Limiter hands out permits that bound concurrent extractions.
type Limiter interface {
	Acquire(ctx context.Context) error
	Release()
}

// Session opens pages inside a browsing context shared by all extractions.
type Session interface {
	NewPage(ctx context.Context) (Page, error)
}

// Page is a single tab owned exclusively by one extraction.
type Page interface {
	// Navigate loads target and returns once the DOM content has loaded.
	Navigate(ctx context.Context, target string) error

	// Title returns the current document title.
	Title(ctx context.Context) (string, error)

	// HTML returns the rendered document.
	HTML(ctx context.Context) (string, error)

	Close() error
}

// Extractor turns one target into exactly one models.Place.
// It is safe for concurrent use.
type Extractor struct {
	session      Session
	limiter      Limiter
	pacer        *rate.Limiter
	navTimeout   time.Duration
	queryTimeout time.Duration
	logger       *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithNavigationTimeout overrides DefaultNavigationTimeout.
func WithNavigationTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.navTimeout = d
		}
	}
}

// WithQueryTimeout overrides DefaultQueryTimeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.queryTimeout = d
		}
	}
}

// WithPacer spaces out navigations using a token bucket.
func WithPacer(l *rate.Limiter) Option {
	return func(e *Extractor) { e.pacer = l }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Extractor that opens pages from session and takes a permit
// from limiter for the whole lifetime of each extraction.
func New(session Session, limiter Limiter, opts ...Option) *Extractor {
	e := &Extractor{
		session:      session,
		limiter:      limiter,
		navTimeout:   DefaultNavigationTimeout,
		queryTimeout: DefaultQueryTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract visits target and returns its result. It never returns nil.
//
// Lifecycle:
//
//  1. Acquire permit   – suspends while all permits are taken
//  2. Open page        – exclusive tab in the shared browsing context
//  3. Navigate + load  – bounded by the navigation timeout
//  4. Fields           – eight independent steps over the loaded snapshot
//  5. Close page, then release the permit (deferred, so every exit path)
func (e *Extractor) Extract(ctx context.Context, target string) *models.Place {
	// ── 1. Permit ──────────────────────────────────────────────────────
	if err := e.limiter.Acquire(ctx); err != nil {
		return e.fail(target, models.NewScrapeError(
			models.ErrCodeNavigation,
			"canceled while waiting for a permit",
			err,
		))
	}
	defer e.limiter.Release()

	// ── 2. Page ────────────────────────────────────────────────────────
	page, err := e.session.NewPage(ctx)
	if err != nil {
		return e.fail(target, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		))
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			e.logger.Debug("page close failed", "url", target, "error", closeErr)
		}
	}()

	// ── 3. Navigate ────────────────────────────────────────────────────
	snap, failure := e.load(ctx, page, target)
	if failure != nil {
		return e.fail(target, failure)
	}

	// ── 4. Fields ──────────────────────────────────────────────────────
	fields := e.extractFields(target, snap)
	e.logger.Info("scraped", "url", target, "name", fields[models.FieldName])
	return models.NewPlace(target, fields)
}

// load navigates and snapshots the page. Any failure here is target-level.
func (e *Extractor) load(ctx context.Context, page Page, target string) (*snapshot, *models.ScrapeError) {
	if e.pacer != nil {
		if err := e.pacer.Wait(ctx); err != nil {
			return nil, categorizeNavigation(err, "canceled while pacing navigation")
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, e.navTimeout)
	defer cancel()

	if err := page.Navigate(navCtx, target); err != nil {
		return nil, categorizeNavigation(err, "navigation to target failed")
	}

	rawHTML, err := page.HTML(navCtx)
	if err != nil {
		return nil, categorizeNavigation(err, "failed to read loaded page")
	}

	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, categorizeNavigation(err, "loaded page is not parseable")
	}

	snap := &snapshot{doc: goquery.NewDocumentFromNode(root)}

	queryCtx, cancelQuery := context.WithTimeout(ctx, e.queryTimeout)
	defer cancelQuery()
	snap.title, snap.titleErr = page.Title(queryCtx)

	return snap, nil
}

// fail builds the failed result for target and reports it.
func (e *Extractor) fail(target string, failure *models.ScrapeError) *models.Place {
	label := models.FallbackLabel(target)
	e.logger.Warn("skipped target",
		"url", target,
		"name", label,
		"code", failure.Code,
		"error", failure,
	)
	return models.NewFailedPlace(target, label, failure)
}

// categorizeNavigation maps a load failure to its classification.
func categorizeNavigation(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeNavigationTimeout, "navigation timed out", err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeNavigation, "navigation canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
