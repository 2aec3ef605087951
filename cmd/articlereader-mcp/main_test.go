package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callReadURL(t *testing.T, apiURL string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Name = "read_url"
	req.Params.Arguments = args

	res, err := handleReadURL(http.DefaultClient, apiURL, "k1")(context.Background(), req)
	require.NoError(t, err)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestReadURL_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/content", r.URL.Path)
		assert.Equal(t, "https://example.com/a?b=c", r.URL.Query().Get("url"))
		assert.Equal(t, "markdown", r.URL.Query().Get("format"))
		assert.Equal(t, "k1", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`{"success":true,"status":"Success","message":"Service is healthy","responseObject":{"title":"A","content":"# A"},"statusCode":200}`))
	}))
	defer srv.Close()

	res := callReadURL(t, srv.URL, map[string]any{"url": "https://example.com/a?b=c", "format": "markdown"})

	assert.False(t, res.IsError)
	assert.Equal(t, "Title: A\nSource: https://example.com/a?b=c\n\n# A", resultText(t, res))
}

func TestReadURL_FallbackPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"status":"Success","message":"Service is healthy","responseObject":{"markdown":"Guarded","metadata":{"title":"G","sourceURL":"https://g.example"}},"statusCode":200}`))
	}))
	defer srv.Close()

	res := callReadURL(t, srv.URL, map[string]any{"url": "https://g.example"})

	assert.Equal(t, "Title: G\nSource: https://g.example\n\nGuarded", resultText(t, res))
}

func TestReadURL_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"status":"Failed","message":"Error fetching content: boom","responseObject":null,"statusCode":500}`))
	}))
	defer srv.Close()

	res := callReadURL(t, srv.URL, map[string]any{"url": "https://example.com"})

	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Error fetching content: boom")
}

func TestReadURL_MissingURL(t *testing.T) {
	res := callReadURL(t, "http://127.0.0.1:0", map[string]any{})
	assert.True(t, res.IsError)
}
