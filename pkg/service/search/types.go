package search

import (
	"context"
	"time"
)

// Result is one discovered web candidate
type Result struct {
	Title       string     `toml:"title"`
	Locator     string     `toml:"url"`
	Snippet     string     `toml:"snippet"`
	PublishedAt *time.Time `toml:"published_at,omitempty"`
}

// Backend discovers web candidates for a question
type Backend interface {
	// Search returns at most limit results, best first
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}
