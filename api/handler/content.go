package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/articlereader/api/middleware"
	"github.com/use-agent/articlereader/cleaner"
	"github.com/use-agent/articlereader/config"
	"github.com/use-agent/articlereader/firecrawl"
	"github.com/use-agent/articlereader/models"
)

// Message of every successful response. Existing clients match on this
// exact string.
const successMessage = "Service is healthy"

// PrimaryFetcher renders a page and returns its snapshot. Satisfied by
// *scraper.Scraper and *engine.Dispatcher.
type PrimaryFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*models.PageSnapshot, error)
}

// FallbackFetcher scrapes a page through the third-party provider.
type FallbackFetcher interface {
	Scrape(ctx context.Context, rawURL string) (*firecrawl.Document, error)
}

// Content returns a handler for GET /content.
//
// Orchestration flow:
//  1. Bind & validate the query; exactly one url value is accepted.
//  2. primary.Fetch  → title + visible text.
//  3. Challenge check on the visible text. A hit hands the URL to the
//     fallback provider and its payload becomes the response object.
//  4. Cleaner.Render → {title, content} in the requested format.
//
// Any failure after validation answers 500 with the error text.
func Content(primary PrimaryFetcher, fallback FallbackFetcher, cl *cleaner.Cleaner, cfg config.ReaderConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := slog.With("request_id", c.GetString(middleware.RequestIDKey))

		// ── 1. Validate ─────────────────────────────────────────────
		var q models.ContentQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respond(c, http.StatusBadRequest, models.StatusFailed, "Invalid query: "+err.Error(), nil)
			return
		}
		rawURL, ok := q.SingleURL()
		if !ok {
			respond(c, http.StatusBadRequest, models.StatusFailed, "URL must be a string", nil)
			return
		}
		q.Defaults()
		ctx := c.Request.Context()

		// ── 2. Primary fetch ────────────────────────────────────────
		snap, err := primary.Fetch(ctx, rawURL)
		if err != nil {
			if !cfg.FallbackOnError {
				respondError(c, log, rawURL, err)
				return
			}
			log.Warn("primary fetch failed, trying fallback provider", "url", rawURL, "error", err)
			serveFallback(c, log, fallback, cfg, rawURL)
			return
		}

		// ── 3. Challenge check ──────────────────────────────────────
		if marker, hit := findMarker(snap.Text, cfg.ChallengeMarkers); hit {
			log.Info("challenge page detected, using fallback provider", "url", rawURL, "marker", marker)
			serveFallback(c, log, fallback, cfg, rawURL)
			return
		}

		// ── 4. Render ───────────────────────────────────────────────
		content, err := cl.Render(snap, q.Format, q.Extract)
		if err != nil {
			respondError(c, log, rawURL, err)
			return
		}

		log.Info("content fetched", "url", rawURL, "engine", snap.Engine, "chars", len(content.Content))
		respond(c, http.StatusOK, models.StatusSuccess, successMessage, content)
	}
}

func serveFallback(c *gin.Context, log *slog.Logger, fallback FallbackFetcher, cfg config.ReaderConfig, rawURL string) {
	doc, err := fallback.Scrape(c.Request.Context(), rawURL)
	if err != nil {
		respondError(c, log, rawURL, err)
		return
	}

	var payload any = doc.Raw
	if cfg.NormalizeFallback {
		payload = &models.ExtractedContent{Title: doc.Metadata.Title, Content: doc.Markdown}
	}
	respond(c, http.StatusOK, models.StatusSuccess, successMessage, payload)
}

// findMarker reports the first marker contained in text.
func findMarker(text string, markers []string) (string, bool) {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return m, true
		}
	}
	return "", false
}

func respondError(c *gin.Context, log *slog.Logger, rawURL string, err error) {
	log.Error("error fetching content", "url", rawURL, "error", err)
	respond(c, http.StatusInternalServerError, models.StatusFailed, "Error fetching content: "+err.Error(), nil)
}

func respond(c *gin.Context, code int, status models.ResponseStatus, message string, obj any) {
	c.JSON(code, models.NewServiceResponse(status, message, obj, code))
}
