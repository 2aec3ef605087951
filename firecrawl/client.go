// Package firecrawl is a minimal client for the Firecrawl scrape API, used
// as the fallback extractor when a page answers with a bot challenge.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/use-agent/articlereader/config"
	"github.com/use-agent/articlereader/models"
)

// Client calls the provider's /v1/scrape endpoint. The API key is supplied
// at construction; the client never reads the environment itself.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// New creates a Client from cfg. Pass a nil httpClient to get one bounded by
// cfg.Timeout.
func New(cfg config.FallbackConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Document is the scraped page returned by the provider.
type Document struct {
	// Raw is the provider's data object, verbatim.
	Raw      json.RawMessage
	Markdown string
	Metadata Metadata
}

// Metadata is the subset of provider metadata the service understands.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SourceURL   string `json:"sourceURL"`
	StatusCode  int    `json:"statusCode"`
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type scrapeData struct {
	Markdown string   `json:"markdown"`
	Metadata Metadata `json:"metadata"`
}

// Scrape asks the provider to fetch rawURL and return it as markdown.
func (c *Client) Scrape(ctx context.Context, rawURL string) (*Document, error) {
	if c.apiKey == "" {
		return nil, models.NewReaderError(models.ErrCodeFallback, "fallback API key is not configured", nil)
	}

	bodyBytes, err := json.Marshal(scrapeRequest{URL: rawURL, Formats: []string{"markdown"}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scrape", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewReaderError(models.ErrCodeFallback, "fallback request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return nil, models.NewReaderError(models.ErrCodeFallback, "failed to read fallback response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("fallback provider returned an error",
			"url", rawURL, "status", resp.StatusCode, "body", truncate(string(respBody), 512),
		)
		return nil, models.NewReaderError(models.ErrCodeFallback,
			fmt.Sprintf("fallback provider returned status %d", resp.StatusCode), nil)
	}

	var sr scrapeResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return nil, models.NewReaderError(models.ErrCodeFallback, "failed to parse fallback response", err)
	}
	if !sr.Success {
		var cause error
		if sr.Error != "" {
			cause = fmt.Errorf("%s", sr.Error)
		}
		return nil, models.NewReaderError(models.ErrCodeFallback, "failed to extract content using Firecrawl", cause)
	}

	doc := &Document{Raw: sr.Data}
	if len(sr.Data) > 0 {
		var data scrapeData
		if err := json.Unmarshal(sr.Data, &data); err != nil {
			return nil, models.NewReaderError(models.ErrCodeFallback, "failed to parse fallback document", err)
		}
		doc.Markdown = data.Markdown
		doc.Metadata = data.Metadata
	}
	return doc, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
