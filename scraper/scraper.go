package scraper

import (
	"log/slog"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/articlereader/config"
	"github.com/use-agent/articlereader/models"
)

// Scraper owns the shared browser process and hands out one isolated
// rendering session per Fetch. It is safe for concurrent use.
type Scraper struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	sessions  SessionFactory
	readerCfg config.ReaderConfig

	activeSessions atomic.Int32
}

// NewScraper launches a headless browser and prepares the session factory.
func NewScraper(browserCfg config.BrowserConfig, readerCfg config.ReaderConfig) (*Scraper, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox).
		Leakless(true)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if browserCfg.Proxy != "" {
		l = l.Proxy(browserCfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewReaderError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, models.NewReaderError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	s := newScraper(&rodSessionFactory{
		browser:      browser,
		stealth:      browserCfg.Stealth,
		idleWindow:   readerCfg.IdleWindow,
		blockedTypes: readerCfg.BlockedResourceTypes,
	}, readerCfg)
	s.browser = browser
	s.launcher = l
	return s, nil
}

// newScraper wires a Scraper around an arbitrary SessionFactory.
func newScraper(sessions SessionFactory, readerCfg config.ReaderConfig) *Scraper {
	return &Scraper{
		sessions:  sessions,
		readerCfg: readerCfg,
	}
}

// ActiveSessions reports how many rendering sessions are currently open.
func (s *Scraper) ActiveSessions() int {
	return int(s.activeSessions.Load())
}

// Close kills the browser process. Call this on graceful shutdown to
// prevent zombie Chrome processes.
func (s *Scraper) Close() {
	if s.browser == nil {
		return
	}
	slog.Info("scraper shutting down: closing browser")
	if err := s.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
	slog.Info("scraper shutdown complete")
}
