package worker

import (
	"context"
	"sync"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/interfaces"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/utils/errutil"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// FeedPoller fetches the current items of every configured feed
type FeedPoller interface {
	Poll(ctx context.Context) ([]*model.FeedEntry, error)
}

// FeedRefreshWorker keeps the live feed store current by polling feeds on an interval
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Upsert is idempotent, so overlapping instances only waste requests
type FeedRefreshWorker struct {
	repo     interfaces.Repository
	poller   FeedPoller
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewFeedRefreshWorker creates a new worker for refreshing the live feed
func NewFeedRefreshWorker(repo interfaces.Repository, poller FeedPoller, interval time.Duration) *FeedRefreshWorker {
	return &FeedRefreshWorker{
		repo:     repo,
		poller:   poller,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop
// - Initial poll and periodic refresh both run in a background goroutine
// - Does not block server startup
func (w *FeedRefreshWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("feed refresh interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Feed refresh worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *FeedRefreshWorker) Stop() {
	w.stopOnce.Do(func() {
		logging.Default().Info("Feed refresh worker stopping")
		close(w.stopCh)
		<-w.doneCh
		logging.Default().Info("Feed refresh worker stopped")
	})
}

func (w *FeedRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if _, err := w.Refresh(ctx); err != nil {
		_ = errutil.Handle(ctx, err, "initial feed refresh failed (will retry next interval)")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.Refresh(ctx); err != nil {
				_ = errutil.Handle(ctx, err, "feed refresh failed (will retry next interval)")
			}

		case <-w.stopCh:
			logging.Default().Info("Feed refresh worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Feed refresh worker context cancelled")
			return
		}
	}
}

// Refresh performs a single poll-and-upsert cycle and returns how many
// entries were written. The store keeps the previous entries on failure.
func (w *FeedRefreshWorker) Refresh(ctx context.Context) (int, error) {
	startTime := time.Now()

	entries, err := w.poller.Poll(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to poll feeds")
	}
	if len(entries) == 0 {
		logging.Default().Info("Feed refresh found no entries")
		return 0, nil
	}

	if err := w.repo.Feed().Upsert(ctx, entries); err != nil {
		return 0, goerr.Wrap(err, "failed to upsert feed entries", goerr.V("count", len(entries)))
	}

	logging.Default().Info("Feed refresh completed",
		"count", len(entries),
		"duration", time.Since(startTime).String())

	return len(entries), nil
}
