package source

import (
	"context"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/interfaces"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/domain/types"
	"github.com/briefwise/briefwise/pkg/utils/errutil"
	"github.com/briefwise/briefwise/pkg/utils/keyword"
	"github.com/briefwise/briefwise/pkg/utils/logging"
)

// MaxLiveEvidence caps how many feed entries one report can draw on
const MaxLiveEvidence = 3

// Live turns recent feed entries into evidence
type Live struct {
	feed interfaces.FeedRepository
	now  func() time.Time
}

// LiveOption configures Live
type LiveOption func(*Live)

// WithClock overrides the time source used to compute the window start
func WithClock(now func() time.Time) LiveOption {
	return func(l *Live) {
		l.now = now
	}
}

// NewLive creates a Live adapter
func NewLive(feed interfaces.FeedRepository, opts ...LiveOption) *Live {
	l := &Live{
		feed: feed,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Collect returns up to MaxLiveEvidence entries published within window
// that match question, newest first
func (l *Live) Collect(ctx context.Context, question string, window time.Duration) []model.Evidence {
	if window <= 0 {
		return nil
	}

	entries, err := l.feed.ListSince(ctx, l.now().Add(-window))
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to list feed entries for live evidence")
		return nil
	}

	filter := keyword.NewFilter(question)
	var evidence []model.Evidence
	for _, entry := range entries {
		if !filter.Match(entry.Title, entry.Content) {
			continue
		}

		publishedAt := entry.PublishedAt
		evidence = append(evidence, model.Evidence{
			Title:       entry.Title,
			Locator:     entry.Locator,
			Content:     entry.Content,
			Channel:     types.ChannelLive,
			Confidence:  model.ConfidenceLive,
			PublishedAt: &publishedAt,
		})
		if len(evidence) >= MaxLiveEvidence {
			break
		}
	}

	logging.From(ctx).Debug("live evidence collected",
		"window", window.String(),
		"entries", len(entries),
		"matched", len(evidence))
	return evidence
}
