package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/articlereader/config"
	"github.com/use-agent/articlereader/models"
)

func newTestClient(t *testing.T, key string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.FallbackConfig{APIKey: key, BaseURL: srv.URL + "/", Timeout: 5 * time.Second}, nil)
}

func TestScrape_Success(t *testing.T) {
	c := newTestClient(t, "fc-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/scrape", r.URL.Path)
		assert.Equal(t, "Bearer fc-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body scrapeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://guarded.example.com", body.URL)
		assert.Equal(t, []string{"markdown"}, body.Formats)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"# Hello","metadata":{"title":"Hello","sourceURL":"https://guarded.example.com","statusCode":200}}}`))
	})

	doc, err := c.Scrape(context.Background(), "https://guarded.example.com")

	require.NoError(t, err)
	assert.Equal(t, "# Hello", doc.Markdown)
	assert.Equal(t, "Hello", doc.Metadata.Title)
	assert.Equal(t, 200, doc.Metadata.StatusCode)
	assert.JSONEq(t, `{"markdown":"# Hello","metadata":{"title":"Hello","sourceURL":"https://guarded.example.com","statusCode":200}}`, string(doc.Raw))
}

func TestScrape_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "non-2xx", status: http.StatusPaymentRequired, body: `{"error":"Insufficient credits"}`, wantMsg: "status 402"},
		{name: "success false", status: http.StatusOK, body: `{"success":false,"error":"blocked"}`, wantMsg: "failed to extract content using Firecrawl"},
		{name: "malformed body", status: http.StatusOK, body: `not json`, wantMsg: "failed to parse fallback response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "fc-key", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Scrape(context.Background(), "https://example.com")

			var re *models.ReaderError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, models.ErrCodeFallback, re.Code)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestScrape_MissingKeySendsNothing(t *testing.T) {
	called := false
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.Scrape(context.Background(), "https://example.com")

	require.Error(t, err)
	assert.False(t, called)
}

func TestScrape_ContextCanceled(t *testing.T) {
	c := newTestClient(t, "fc-key", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Scrape(ctx, "https://example.com")

	assert.ErrorIs(t, err, context.Canceled)
}
