package usecase

import (
	"time"

	"github.com/briefwise/briefwise/pkg/domain/interfaces"
	"github.com/briefwise/briefwise/pkg/service/slack"
	"github.com/briefwise/briefwise/pkg/service/storage"
	"github.com/briefwise/briefwise/pkg/service/synth"
)

const (
	// DefaultReportCost is the number of credits charged per report
	DefaultReportCost = 1
	// DefaultInitialCredits is granted to a user on first access
	DefaultInitialCredits = 10
	// DefaultReportTimeout bounds one aggregate-then-synthesize call
	DefaultReportTimeout = 2 * time.Minute
)

type UseCases struct {
	repo interfaces.Repository

	reportCost     int
	initialCredits int
	reportTimeout  time.Duration
	notifier       slack.Notifier
	blobs          storage.BlobStore
	now            func() time.Time

	Report   *ReportUseCase
	Document *DocumentUseCase
	Feed     *FeedUseCase
	User     *UserUseCase
}

type Option func(*UseCases)

func WithReportCost(cost int) Option {
	return func(uc *UseCases) {
		uc.reportCost = cost
	}
}

func WithInitialCredits(credits int) Option {
	return func(uc *UseCases) {
		uc.initialCredits = credits
	}
}

// WithReportTimeout sets the caller-level timeout of report generation. Zero disables it.
func WithReportTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.reportTimeout = d
	}
}

// WithNotifier enables best-effort notification after a report is committed
func WithNotifier(n slack.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithBlobStore keeps raw uploads in blob storage
func WithBlobStore(blobs storage.BlobStore) Option {
	return func(uc *UseCases) {
		uc.blobs = blobs
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, aggregator Aggregator, synthesizer synth.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:           repo,
		reportCost:     DefaultReportCost,
		initialCredits: DefaultInitialCredits,
		reportTimeout:  DefaultReportTimeout,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Report = &ReportUseCase{
		repo:           repo,
		aggregator:     aggregator,
		synthesizer:    synthesizer,
		notifier:       uc.notifier,
		cost:           uc.reportCost,
		initialCredits: uc.initialCredits,
		timeout:        uc.reportTimeout,
	}
	uc.Document = NewDocumentUseCase(repo, uc.blobs)
	uc.Feed = NewFeedUseCase(repo, uc.now)
	uc.User = NewUserUseCase(repo, uc.initialCredits)

	return uc
}
