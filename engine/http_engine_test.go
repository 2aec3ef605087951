package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var articleBody = strings.Repeat("This static article paragraph has plenty of readable text. ", 10)

func staticPage(title string) string {
	return fmt.Sprintf(`<html><head><title>%s</title></head><body>
<nav>Menu</nav>
<h1>%s</h1>
<p>%s</p>
<footer>Footer links</footer>
</body></html>`, title, title, articleBody)
}

func TestHTTPEngine_StaticPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Chrome")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, staticPage("Static Title"))
	}))
	defer srv.Close()

	snap, err := NewHTTPEngine(2*time.Second).Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "Static Title", snap.Title)
	assert.Equal(t, "http", snap.Engine)
	assert.Contains(t, snap.Text, "readable text")
	assert.NotContains(t, snap.Text, "Menu")
	assert.NotContains(t, snap.Text, "Footer links")
	assert.Equal(t, srv.URL, snap.FinalURL)
}

func TestHTTPEngine_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		ct      string
		body    string
		wantErr error
	}{
		{name: "error status", status: http.StatusForbidden, ct: "text/html", body: staticPage("x")},
		{name: "not html", status: http.StatusOK, ct: "application/json", body: `{"a":1}`},
		{name: "spa shell", status: http.StatusOK, ct: "text/html", body: `<html><body><div id="root"></div><script src="/app.js"></script></body></html>`, wantErr: ErrNeedsBrowser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.ct)
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewHTTPEngine(2*time.Second).Fetch(context.Background(), srv.URL)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNeedsBrowser(t *testing.T) {
	assert.True(t, needsBrowser(`<html><body><p>short</p></body></html>`))
	assert.True(t, needsBrowser(`<html><body><noscript>Please enable JavaScript to continue</noscript><p>`+articleBody+`</p></body></html>`))
	assert.False(t, needsBrowser(staticPage("ok")))
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Hello", extractTitle(`<html><head><title> Hello </title></head></html>`))
	assert.Equal(t, "", extractTitle(`<html><body>none</body></html>`))
}
