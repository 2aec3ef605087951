package engine

import (
	"context"

	"github.com/use-agent/articlereader/models"
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http", "browser").
	Name() string

	// Fetch retrieves the page and returns its cleaned snapshot.
	Fetch(ctx context.Context, rawURL string) (*models.PageSnapshot, error)
}
