package usecase

import (
	"context"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/interfaces"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type FeedUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewFeedUseCase(repo interfaces.Repository, now func() time.Time) *FeedUseCase {
	if now == nil {
		now = time.Now
	}
	return &FeedUseCase{
		repo: repo,
		now:  now,
	}
}

// Recent returns live feed entries published within window, newest first
func (uc *FeedUseCase) Recent(ctx context.Context, window time.Duration) ([]*model.FeedEntry, error) {
	if window <= 0 {
		return []*model.FeedEntry{}, nil
	}

	entries, err := uc.repo.Feed().ListSince(ctx, uc.now().Add(-window))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list feed entries", goerr.V("window", window))
	}
	return entries, nil
}
