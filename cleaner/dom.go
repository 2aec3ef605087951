package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// NonContentTags are the element types dropped before reading page text.
// The browser cleanup script and StripNonContent both use this list, and
// both remove only the first element of each type.
var NonContentTags = []string{
	"footer", "header", "nav", "script", "style", "link", "meta", "noscript",
	"img", "picture", "video", "audio", "iframe", "object", "embed", "param",
	"track", "source", "canvas", "map", "area", "svg", "math",
}

var nonContentMatchers = compileTags(NonContentTags)

func compileTags(tags []string) []cascadia.Selector {
	sels := make([]cascadia.Selector, len(tags))
	for i, tag := range tags {
		sels[i] = cascadia.MustCompile(tag)
	}
	return sels
}

// StripNonContent removes the first element of each NonContentTags type
// from rawHTML and returns the re-rendered document.
func StripNonContent(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}
	for _, m := range nonContentMatchers {
		doc.FindMatcher(m).First().Remove()
	}
	return doc.Html()
}

// DocumentTitle returns the trimmed text of the first <title> element.
func DocumentTitle(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
