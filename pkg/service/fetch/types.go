package fetch

import "context"

// Fetcher retrieves the readable text behind a locator
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (string, error)
}

// Condenser shortens text to at most maxLen runes
type Condenser interface {
	Condense(ctx context.Context, text string, maxLen int) (string, error)
}
