package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// contentResponse mirrors the GET /content envelope.
type contentResponse struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	ResponseObject json.RawMessage `json:"responseObject"`
	StatusCode     int             `json:"statusCode"`
}

// extractedContent is the primary-path responseObject.
type extractedContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// fallbackDocument is the subset of a pass-through provider payload we render.
type fallbackDocument struct {
	Markdown string `json:"markdown"`
	Metadata struct {
		Title     string `json:"title"`
		SourceURL string `json:"sourceURL"`
	} `json:"metadata"`
}

func main() {
	apiURL := os.Getenv("READER_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	// Optional: only needed when the service runs with READER_AUTH_ENABLED.
	apiKey := os.Getenv("READER_API_KEY")

	s := server.NewMCPServer(
		"articlereader",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	readURLTool := mcp.NewTool("read_url",
		mcp.WithDescription("Read a web page and return its title and visible text. Uses a headless browser to render JavaScript-heavy pages and falls back to an extraction API on bot-challenge pages."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to read"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'text' (default, visible text) or 'markdown'"),
			mcp.Enum("text", "markdown"),
		),
		mcp.WithString("extract",
			mcp.Description("Extraction mode: 'raw' (default, whole page) or 'readability' (main article only)"),
			mcp.Enum("raw", "readability"),
		),
	)
	s.AddTool(readURLTool, handleReadURL(&http.Client{Timeout: 120 * time.Second}, apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleReadURL(client *http.Client, apiURL, apiKey string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		q := url.Values{}
		q.Set("url", target)
		if v := request.GetString("format", ""); v != "" {
			q.Set("format", v)
		}
		if v := request.GetString("extract", ""); v != "" {
			q.Set("extract", v)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/content?"+q.Encode(), nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		if apiKey != "" {
			httpReq.Header.Set("X-API-Key", apiKey)
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var cr contentResponse
		if err := json.Unmarshal(respBody, &cr); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !cr.Success {
			return mcp.NewToolResultError(fmt.Sprintf("[%d] %s", cr.StatusCode, cr.Message)), nil
		}

		return mcp.NewToolResultText(formatContent(target, cr.ResponseObject)), nil
	}
}

// formatContent renders either response shape as "Title/Source" header plus body.
func formatContent(target string, obj json.RawMessage) string {
	var ec extractedContent
	if err := json.Unmarshal(obj, &ec); err == nil && ec.Content != "" {
		return fmt.Sprintf("Title: %s\nSource: %s\n\n%s", ec.Title, target, ec.Content)
	}

	var doc fallbackDocument
	if err := json.Unmarshal(obj, &doc); err == nil && doc.Markdown != "" {
		source := doc.Metadata.SourceURL
		if source == "" {
			source = target
		}
		return fmt.Sprintf("Title: %s\nSource: %s\n\n%s", doc.Metadata.Title, source, doc.Markdown)
	}

	return string(obj)
}
