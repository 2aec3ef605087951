package scraper

import (
	"context"
	"errors"
	"log/slog"

	"github.com/use-agent/articlereader/models"
)

// EngineName identifies snapshots produced by the browser.
const EngineName = "browser"

// Fetch renders rawURL in a fresh rendering session and returns the page
// title and visible text after the non-content cleanup.
//
// Lifecycle:
//
//  1. Open session            – isolated browser context + page
//  2. DEFER: release          – exactly once, on every exit path
//  3. Navigate + idle wait    – bounded by NavigationTimeout
//  4. Extract                 – cleanup script, title, innerText
//  5. Salvage (timeouts only) – one more Extract on the partially loaded
//     page, bounded by SalvageTimeout. If that fails too, the original
//     timeout error is returned.
func (s *Scraper) Fetch(ctx context.Context, rawURL string) (*models.PageSnapshot, error) {
	s.activeSessions.Add(1)
	defer s.activeSessions.Add(-1)

	// ── 1. Open session ──────────────────────────────────────────────
	sess, err := s.sessions.NewSession(ctx)
	if err != nil {
		return nil, models.NewReaderError(
			models.ErrCodeBrowserCrash,
			"failed to open rendering session",
			err,
		)
	}

	// ── 2. Release ───────────────────────────────────────────────────
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			slog.Warn("failed to release rendering session",
				"url", rawURL, "error", closeErr,
			)
		}
	}()

	// ── 3 + 4. Load and extract ──────────────────────────────────────
	snap, err := s.load(ctx, sess, rawURL)
	if err == nil {
		return snap, nil
	}
	slog.Error("error fetching content", "url", rawURL, "error", err)

	if !isTimeout(err) {
		return nil, err
	}

	// ── 5. Salvage ───────────────────────────────────────────────────
	slog.Warn("timeout occurred, attempting to extract content anyway", "url", rawURL)

	salvageCtx, cancel := context.WithTimeout(ctx, s.readerCfg.SalvageTimeout)
	defer cancel()

	snap, salvageErr := extract(salvageCtx, sess, rawURL)
	if salvageErr != nil {
		slog.Error("failed to extract content after timeout",
			"url", rawURL, "error", salvageErr,
		)
		return nil, err
	}
	return snap, nil
}

// load navigates and extracts under a single navigation deadline.
func (s *Scraper) load(ctx context.Context, sess Session, rawURL string) (*models.PageSnapshot, error) {
	navCtx, cancel := context.WithTimeout(ctx, s.readerCfg.NavigationTimeout)
	defer cancel()

	if err := sess.Navigate(navCtx, rawURL); err != nil {
		return nil, categorizeError(err, models.ErrCodeNavigation, "navigation to target URL failed")
	}
	return extract(navCtx, sess, rawURL)
}

// extract takes the session explicitly so the same handle serves both the
// normal path and the salvage path.
func extract(ctx context.Context, sess Session, rawURL string) (*models.PageSnapshot, error) {
	snap, err := sess.Extract(ctx)
	if err != nil {
		return nil, categorizeError(err, models.ErrCodeExtraction, "failed to extract page content")
	}
	if snap.FinalURL == "" || snap.FinalURL == "about:blank" {
		snap.FinalURL = rawURL
	}
	snap.Engine = EngineName
	return snap, nil
}

// categorizeError wraps raw errors into typed ReaderErrors. Deadline
// errors always become ErrCodeTimeout, which is what makes them eligible
// for salvage.
func categorizeError(err error, code, msg string) *models.ReaderError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewReaderError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewReaderError(models.ErrCodeInternal, "request canceled", err)
	default:
		return models.NewReaderError(code, msg, err)
	}
}

func isTimeout(err error) bool {
	var re *models.ReaderError
	return errors.As(err, &re) && re.Code == models.ErrCodeTimeout
}
