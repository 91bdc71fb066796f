package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
)

type feedRepository struct {
	mu      sync.RWMutex
	entries map[model.FeedEntryID]*model.FeedEntry
}

func newFeedRepository() *feedRepository {
	return &feedRepository{
		entries: make(map[model.FeedEntryID]*model.FeedEntry),
	}
}

func copyFeedEntry(e *model.FeedEntry) *model.FeedEntry {
	copied := *e
	return &copied
}

func (r *feedRepository) Upsert(ctx context.Context, entries []*model.FeedEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		stored := copyFeedEntry(e)
		if stored.ID == "" {
			stored.ID = model.NewFeedEntryID(stored.Locator)
		}
		r.entries[stored.ID] = stored
	}

	r.trim()
	return nil
}

// trim drops the oldest entries beyond model.FeedRetention. Caller must hold the lock.
func (r *feedRepository) trim() {
	if len(r.entries) <= model.FeedRetention {
		return
	}

	all := r.sorted()
	for _, e := range all[model.FeedRetention:] {
		delete(r.entries, e.ID)
	}
}

// sorted returns stored entries newest first. Caller must hold the lock.
func (r *feedRepository) sorted() []*model.FeedEntry {
	all := make([]*model.FeedEntry, 0, len(r.entries))
	for _, e := range r.entries {
		all = append(all, e)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].PublishedAt.Equal(all[j].PublishedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})
	return all
}

func (r *feedRepository) ListSince(ctx context.Context, since time.Time) ([]*model.FeedEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.FeedEntry, 0)
	for _, e := range r.sorted() {
		if e.PublishedAt.Before(since) {
			continue
		}
		result = append(result, copyFeedEntry(e))
	}

	return result, nil
}
