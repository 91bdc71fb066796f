package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// FeedRetention is the number of newest entries kept in the live feed store
const FeedRetention = 100

// FeedEntryID is derived from the entry locator so re-polling a feed is idempotent
type FeedEntryID string

// NewFeedEntryID derives a deterministic FeedEntryID from a locator
func NewFeedEntryID(locator string) FeedEntryID {
	sum := sha256.Sum256([]byte(locator))
	return FeedEntryID(hex.EncodeToString(sum[:16]))
}

// FeedEntry is one item from a continuously updated external feed
type FeedEntry struct {
	ID          FeedEntryID
	Feed        string // Configured feed ID
	Title       string
	Locator     string
	Content     string
	PublishedAt time.Time
	FetchedAt   time.Time
}
