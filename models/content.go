package models

// ExtractedContent is the cleaned page returned by GET /content.
type ExtractedContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PageSnapshot is the raw result of a primary fetch, before it is rendered
// into ExtractedContent.
type PageSnapshot struct {
	// Title is document.title (or the <title> element for HTTP fetches).
	Title string

	// Text is the visible body text after non-content elements were removed.
	// The challenge-marker check runs against this field.
	Text string

	// HTML is the cleaned document markup. Best-effort; may be empty.
	HTML string

	// FinalURL is the URL after redirects. Falls back to the requested URL.
	FinalURL string

	// Engine records which fetch engine produced the snapshot.
	Engine string
}

// Output formats accepted by the format query parameter.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Extraction modes accepted by the extract query parameter.
const (
	ExtractRaw         = "raw"
	ExtractReadability = "readability"
)

// ContentQuery binds the query string of GET /content.
//
// URL is a slice so that a repeated ?url=a&url=b can be told apart from a
// single value; only exactly one non-empty value is accepted.
type ContentQuery struct {
	URL     []string `form:"url"`
	Format  string   `form:"format" binding:"omitempty,oneof=text markdown"`
	Extract string   `form:"extract" binding:"omitempty,oneof=raw readability"`
}

// Defaults applies default values to unset fields.
func (q *ContentQuery) Defaults() {
	if q.Format == "" {
		q.Format = FormatText
	}
	if q.Extract == "" {
		q.Extract = ExtractRaw
	}
}

// SingleURL returns the url parameter when exactly one non-empty value was
// supplied.
func (q *ContentQuery) SingleURL() (string, bool) {
	if len(q.URL) != 1 || q.URL[0] == "" {
		return "", false
	}
	return q.URL[0], true
}
