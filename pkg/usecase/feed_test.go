package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/repository/memory"
	"github.com/briefwise/briefwise/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestFeedUseCase_Recent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := memory.New()

	entry := func(locator string, age time.Duration) *model.FeedEntry {
		return &model.FeedEntry{
			ID:          model.NewFeedEntryID(locator),
			Title:       locator,
			Locator:     locator,
			PublishedAt: now.Add(-age),
			FetchedAt:   now,
		}
	}
	gt.NoError(t, repo.Feed().Upsert(ctx, []*model.FeedEntry{
		entry("https://n/old", 3*time.Hour),
		entry("https://n/recent", 10*time.Minute),
		entry("https://n/latest", time.Minute),
	})).Required()

	uc := usecase.NewFeedUseCase(repo, func() time.Time { return now })

	t.Run("returns entries within window newest first", func(t *testing.T) {
		entries, err := uc.Recent(ctx, time.Hour)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(2).Required()
		gt.Value(t, entries[0].Locator).Equal("https://n/latest")
		gt.Value(t, entries[1].Locator).Equal("https://n/recent")
	})

	t.Run("empty window returns nothing", func(t *testing.T) {
		entries, err := uc.Recent(ctx, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, entries).Length(0)
	})
}
