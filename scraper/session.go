package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/articlereader/cleaner"
	"github.com/use-agent/articlereader/models"
	"github.com/ysmood/gson"
)

// Session is a handle to one isolated rendering session: a private browser
// context holding a single page.
type Session interface {
	// Navigate loads url and waits until the network is idle. The context
	// bounds both the navigation and the wait.
	Navigate(ctx context.Context, url string) error

	// Extract runs the DOM cleanup on whatever is currently loaded and
	// returns the title and remaining visible text.
	Extract(ctx context.Context) (*models.PageSnapshot, error)

	// Close releases the session. Only the first call does any work.
	Close() error
}

// SessionFactory opens rendering sessions.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}

// cleanupJS removes the first element of each listed tag, then reads what
// is left. document.body.innerText throws on a document without a body,
// which surfaces as an extraction error.
const cleanupJS = `(tags) => {
	for (const tag of tags) {
		const el = document.querySelector(tag);
		if (el) el.remove();
	}
	return {
		title: document.title,
		text: document.body.innerText,
		html: document.documentElement ? document.documentElement.outerHTML : "",
		url: window.location.href,
	};
}`

type cleanupResult struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	HTML  string `json:"html"`
	URL   string `json:"url"`
}

type rodSessionFactory struct {
	browser      *rod.Browser
	stealth      bool
	idleWindow   time.Duration
	blockedTypes []string
}

// NewSession creates an incognito browser context with one page, then
// installs stealth, extra headers and request hijacking before any
// navigation happens.
func (f *rodSessionFactory) NewSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	incognito, err := f.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = incognito.Close()
		return nil, fmt.Errorf("creating page: %w", err)
	}

	s := &rodSession{
		browserCtx: incognito,
		page:       page,
		idleWindow: f.idleWindow,
	}

	if f.stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	if err := (proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{
			"Accept-Language": "en-US,en;q=0.9",
		}),
	}).Call(page); err != nil {
		slog.Warn("setting extra headers failed", "error", err)
	}

	s.router = setupHijack(page, f.blockedTypes)
	return s, nil
}

type rodSession struct {
	browserCtx *rod.Browser
	page       *rod.Page
	router     *rod.HijackRouter
	idleWindow time.Duration

	closeOnce sync.Once
	closeErr  error
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)

	// The request-idle listener must exist before Navigate or in-flight
	// requests are missed. It shares the Fetch domain with request
	// hijacking, so a hijacked session waits for DOM stability instead.
	var waitIdle func()
	if s.router == nil {
		waitIdle = p.WaitRequestIdle(s.idleWindow, nil, nil, nil)
	}

	if err := p.Navigate(url); err != nil {
		return err
	}

	if waitIdle != nil {
		waitIdle()
	} else if err := p.WaitDOMStable(s.idleWindow, 0); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *rodSession) Extract(ctx context.Context) (*models.PageSnapshot, error) {
	res, err := s.page.Context(ctx).Eval(cleanupJS, cleaner.NonContentTags)
	if err != nil {
		return nil, err
	}

	var out cleanupResult
	if err := res.Value.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("decoding cleanup result: %w", err)
	}
	return &models.PageSnapshot{
		Title:    out.Title,
		Text:     out.Text,
		HTML:     out.HTML,
		FinalURL: out.URL,
	}, nil
}

// Close stops hijacking and disposes the browser context, which closes
// its page. The handles are not bound to any request context, so this
// works after the request deadline has passed.
func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		var routerErr error
		if s.router != nil {
			routerErr = s.router.Stop()
		}
		s.closeErr = errors.Join(routerErr, s.browserCtx.Close())
	})
	return s.closeErr
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
