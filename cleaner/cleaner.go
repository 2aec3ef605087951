package cleaner

import (
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/use-agent/articlereader/models"
)

// Cleaner turns a PageSnapshot into the ExtractedContent returned to the
// caller. The Markdown converter is created once and shared (goroutine-safe).
type Cleaner struct {
	mdConverter *converter.Converter
}

// NewCleaner initialises the Cleaner with a pre-configured Markdown converter.
func NewCleaner() *Cleaner {
	return &Cleaner{
		mdConverter: newMarkdownConverter(),
	}
}

// Render applies the requested extraction mode and output format.
//
//   - text + raw:      the snapshot's visible text, untouched.
//   - readability:     narrow the cleaned markup to the main article first.
//   - markdown:        convert the (possibly narrowed) markup to Markdown.
//
// When no markup was captured the visible text is returned as-is.
func (c *Cleaner) Render(snap *models.PageSnapshot, format, extract string) (*models.ExtractedContent, error) {
	if format != models.FormatMarkdown && extract != models.ExtractReadability {
		return &models.ExtractedContent{Title: snap.Title, Content: snap.Text}, nil
	}

	if strings.TrimSpace(snap.HTML) == "" {
		slog.Warn("cleaner: no markup captured, returning visible text",
			"url", snap.FinalURL, "format", format, "extract", extract,
		)
		return &models.ExtractedContent{Title: snap.Title, Content: snap.Text}, nil
	}

	title := snap.Title
	markup := snap.HTML
	text := snap.Text

	if extract == models.ExtractReadability {
		if article, ok := ExtractArticle(snap.HTML, snap.FinalURL); ok {
			markup = article.Content
			text = strings.TrimSpace(article.TextContent)
			if title == "" {
				title = article.Title
			}
		}
	}

	if format != models.FormatMarkdown {
		return &models.ExtractedContent{Title: title, Content: text}, nil
	}

	md, err := toMarkdown(c.mdConverter, markup, snap.FinalURL)
	if err != nil {
		return nil, models.NewReaderError(
			models.ErrCodeExtraction,
			"markdown conversion failed",
			err,
		)
	}
	return &models.ExtractedContent{Title: title, Content: strings.TrimSpace(md)}, nil
}
