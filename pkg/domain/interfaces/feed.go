package interfaces

import (
	"context"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
)

// FeedRepository defines the interface for the live feed store
type FeedRepository interface {
	// Upsert inserts or replaces entries by ID and trims the store to the
	// newest model.FeedRetention entries by PublishedAt
	Upsert(ctx context.Context, entries []*model.FeedEntry) error

	// ListSince retrieves entries published at or after since, newest first
	ListSince(ctx context.Context, since time.Time) ([]*model.FeedEntry, error)
}
