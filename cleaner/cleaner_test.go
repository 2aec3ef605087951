package cleaner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/articlereader/models"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>  Sample Page  </title><style>body{color:red}</style></head>
<body>
<header>Site header</header>
<nav>Primary nav</nav>
<nav>Secondary nav</nav>
<h1>Main heading</h1>
<p>First paragraph with <a href="/docs">a link</a>.</p>
<script>console.log("tracking")</script>
<script>console.log("second")</script>
<footer>Copyright</footer>
</body>
</html>`

func TestStripNonContent_RemovesFirstInstanceOnly(t *testing.T) {
	out, err := StripNonContent(samplePage)
	require.NoError(t, err)

	assert.NotContains(t, out, "Site header")
	assert.NotContains(t, out, "Primary nav")
	assert.Contains(t, out, "Secondary nav", "only the first <nav> is removed")
	assert.NotContains(t, out, `console.log("tracking")`)
	assert.Contains(t, out, `console.log("second")`, "only the first <script> is removed")
	assert.NotContains(t, out, "Copyright")
	assert.NotContains(t, out, "<style>")
	assert.Contains(t, out, "Main heading")
}

func TestStripNonContent_NoMatchesIsHarmless(t *testing.T) {
	out, err := StripNonContent(`<p>just text</p>`)
	require.NoError(t, err)
	assert.Contains(t, out, "<p>just text</p>")
}

func TestDocumentTitle(t *testing.T) {
	assert.Equal(t, "Sample Page", DocumentTitle(samplePage))
	assert.Equal(t, "", DocumentTitle(`<p>no title</p>`))
}

func TestVisibleText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "inline elements join on one line",
			in:   `<p>Hello <b>brave</b> <i>new</i> world</p>`,
			want: "Hello brave new world",
		},
		{
			name: "block elements split lines",
			in:   `<div>One</div><div>Two</div><ul><li>a</li><li>b</li></ul>`,
			want: "One\nTwo\na\nb",
		},
		{
			name: "hidden elements are skipped",
			in:   `<html><head><title>T</title></head><body><script>x()</script><style>p{}</style><noscript>enable js</noscript><p>shown</p></body></html>`,
			want: "shown",
		},
		{
			name: "br breaks lines and whitespace collapses",
			in:   "<p>line   one<br>line\n\ttwo</p>",
			want: "line one\nline two",
		},
		{
			name: "empty document",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VisibleText(tt.in))
		})
	}
}

func TestRender_TextRawPassesSnapshotThrough(t *testing.T) {
	cl := NewCleaner()
	snap := &models.PageSnapshot{Title: "T", Text: "visible text", HTML: "<p>ignored</p>"}

	got, err := cl.Render(snap, models.FormatText, models.ExtractRaw)
	require.NoError(t, err)
	assert.Equal(t, &models.ExtractedContent{Title: "T", Content: "visible text"}, got)
}

func TestRender_Markdown(t *testing.T) {
	cl := NewCleaner()
	cleaned, err := StripNonContent(samplePage)
	require.NoError(t, err)

	snap := &models.PageSnapshot{
		Title:    "Sample Page",
		Text:     VisibleText(cleaned),
		HTML:     cleaned,
		FinalURL: "https://example.com",
	}

	got, err := cl.Render(snap, models.FormatMarkdown, models.ExtractRaw)
	require.NoError(t, err)
	assert.Equal(t, "Sample Page", got.Title)
	assert.Contains(t, got.Content, "# Main heading")
	assert.Contains(t, got.Content, "https://example.com/docs")
	assert.NotContains(t, got.Content, "<p>")
}

func TestRender_MarkdownWithoutMarkupFallsBackToText(t *testing.T) {
	cl := NewCleaner()
	snap := &models.PageSnapshot{Title: "T", Text: "salvaged text"}

	got, err := cl.Render(snap, models.FormatMarkdown, models.ExtractReadability)
	require.NoError(t, err)
	assert.Equal(t, "salvaged text", got.Content)
}

func TestRender_ReadabilityText(t *testing.T) {
	cl := NewCleaner()
	paragraph := strings.Repeat("Readable article sentence that carries real content. ", 8)
	page := `<html><head><title>Article Title</title></head><body>
<article><h1>Article Title</h1><p>` + paragraph + `</p><p>` + paragraph + `</p></article>
</body></html>`

	snap := &models.PageSnapshot{Text: VisibleText(page), HTML: page, FinalURL: "https://example.com/post"}

	got, err := cl.Render(snap, models.FormatText, models.ExtractReadability)
	require.NoError(t, err)
	assert.Equal(t, "Article Title", got.Title, "readability title fills an empty snapshot title")
	assert.Contains(t, got.Content, "Readable article sentence")
}

func TestExtractArticle_ShortContentUsesFullPage(t *testing.T) {
	article, ok := ExtractArticle(`<html><body><p>tiny</p></body></html>`, "https://example.com")
	assert.False(t, ok)
	assert.Equal(t, "tiny", article.TextContent)
}
