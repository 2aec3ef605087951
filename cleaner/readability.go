package cleaner

import (
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to be considered valid.
const minContentLength = 50

// ExtractArticle runs the Mozilla Readability algorithm on rawHTML.
//
// The boolean reports whether readability found a usable article. When it
// did not (bad URL, parser error, or less than minContentLength characters
// of text) the returned Article wraps rawHTML unchanged so callers can
// proceed with the full page.
func ExtractArticle(rawHTML, pageURL string) (readability.Article, bool) {
	parsedURL, err := nurl.Parse(pageURL)
	if err != nil {
		slog.Warn("readability: invalid page URL, using full page",
			"url", pageURL, "error", err,
		)
		return fullPageArticle(rawHTML), false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("readability: extraction failed, using full page",
			"url", pageURL, "error", err,
		)
		return fullPageArticle(rawHTML), false
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Warn("readability: extracted content too short, using full page",
			"url", pageURL, "length", len(article.TextContent),
		)
		return fullPageArticle(rawHTML), false
	}

	return article, true
}

func fullPageArticle(rawHTML string) readability.Article {
	return readability.Article{
		Content:     rawHTML,
		TextContent: VisibleText(rawHTML),
	}
}
