package engine

import (
	"context"
	"fmt"

	"github.com/use-agent/articlereader/models"
)

// RodFetchFunc wraps scraper.Scraper.Fetch. It is injected from main.go so
// engine/ never imports scraper/.
type RodFetchFunc func(ctx context.Context, rawURL string) (*models.PageSnapshot, error)

// RodEngine is the browser-backed engine.
type RodEngine struct {
	fetchFunc RodFetchFunc
	name      string
}

// NewRodEngine creates a RodEngine reporting itself under name.
func NewRodEngine(name string, fetchFunc RodFetchFunc) *RodEngine {
	if name == "" {
		name = "browser"
	}
	return &RodEngine{fetchFunc: fetchFunc, name: name}
}

func (e *RodEngine) Name() string { return e.name }

func (e *RodEngine) Fetch(ctx context.Context, rawURL string) (*models.PageSnapshot, error) {
	if e.fetchFunc == nil {
		return nil, fmt.Errorf("%s: fetchFunc not configured", e.name)
	}
	snap, err := e.fetchFunc(ctx, rawURL)
	if err != nil {
		// Keep ReaderErrors intact so the handler sees the original code.
		return nil, err
	}
	snap.Engine = e.name
	return snap, nil
}
