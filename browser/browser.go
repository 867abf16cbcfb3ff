// Package browser owns the Chromium process and the incognito browsing
// context that every extraction opens its page in.
package browser

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/mr-zlaam/googleMapScraper/config"
	"github.com/mr-zlaam/googleMapScraper/extractor"
	"github.com/mr-zlaam/googleMapScraper/models"
)

// Session is a launched browser plus one incognito context shared by all
// pages. It is safe for concurrent use.
type Session struct {
	launcher    *launcher.Launcher
	root        *rod.Browser
	incognito   *rod.Browser
	cfg         config.BrowserConfig
	blocked     map[proto.NetworkResourceType]struct{}
	logger      *slog.Logger
	activePages atomic.Int32
}

var _ extractor.Session = (*Session)(nil)

// Launch starts Chromium and opens the shared incognito context.
// Any failure here is fatal for the run.
func Launch(cfg config.BrowserConfig, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	logger.Info("browser launched", "controlURL", controlURL)

	root := rod.New().ControlURL(controlURL)
	if err := root.Connect(); err != nil {
		l.Kill()
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	incognito, err := root.Incognito()
	if err != nil {
		_ = root.Close()
		l.Kill()
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to open incognito context", err)
	}

	return &Session{
		launcher:  l,
		root:      root,
		incognito: incognito,
		cfg:       cfg,
		blocked:   resourceTypes(cfg.BlockedResourceTypes),
		logger:    logger,
	}, nil
}

// NewPage opens a fresh tab in the shared context with stealth, language
// pinning and request blocking installed before any navigation.
func (s *Session) NewPage(ctx context.Context) (extractor.Page, error) {
	rp, err := s.incognito.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	// Later calls bind their own context; closing must not depend on ctx.
	rp = rp.Context(context.Background())

	if s.cfg.Stealth {
		if _, err := rp.EvalOnNewDocument(stealth.JS); err != nil {
			s.logger.Warn("stealth injection failed, proceeding without stealth", "error", err)
		}
	}

	if s.cfg.AcceptLanguage != "" {
		err := proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{"Accept-Language": s.cfg.AcceptLanguage}),
		}.Call(rp)
		if err != nil {
			s.logger.Warn("failed to pin page language", "error", err)
		}
	}

	s.activePages.Add(1)
	return &page{
		page:    rp,
		router:  setupHijack(rp, s.blocked, s.cfg.BlockTrackers),
		onClose: func() { s.activePages.Add(-1) },
	}, nil
}

// ActivePages returns the number of pages opened and not yet closed.
func (s *Session) ActivePages() int {
	return int(s.activePages.Load())
}

// Close disposes the incognito context and kills the browser process.
func (s *Session) Close() {
	if n := s.ActivePages(); n > 0 {
		s.logger.Warn("closing browser with pages still open", "pages", n)
	}
	if err := s.incognito.Close(); err != nil {
		s.logger.Debug("failed to dispose incognito context", "error", err)
	}
	if err := s.root.Close(); err != nil {
		s.logger.Debug("failed to close browser", "error", err)
	}
	s.launcher.Cleanup()
	s.logger.Info("browser closed")
}
