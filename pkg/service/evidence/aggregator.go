package evidence

import (
	"context"
	"fmt"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/domain/types"
	"github.com/briefwise/briefwise/pkg/utils/errutil"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWebLimit caps the number of web evidence items per report
	DefaultWebLimit = 5
	// DefaultLiveWindow is how far back live feed entries are considered
	DefaultLiveWindow = 60 * time.Minute
)

// FileCollector produces evidence from a user's documents
type FileCollector interface {
	Collect(ctx context.Context, userID, question string) []model.Evidence
}

// WebCollector produces evidence from web search
type WebCollector interface {
	Collect(ctx context.Context, question string, limit int) []model.Evidence
}

// LiveCollector produces evidence from the recent live feed
type LiveCollector interface {
	Collect(ctx context.Context, question string, window time.Duration) []model.Evidence
}

// Request selects which channels feed one report
type Request struct {
	UserID       string
	Query        string
	IncludeFiles bool
	IncludeWeb   bool
	IncludeLive  bool
}

// Result is the concatenated evidence (files, web, live) and its per-channel counts
type Result struct {
	Evidence  []model.Evidence
	Breakdown model.SourceBreakdown
}

// Aggregator fans a request out to the enabled channels
type Aggregator struct {
	file       FileCollector
	web        WebCollector
	live       LiveCollector
	webLimit   int
	liveWindow time.Duration
}

// Option configures Aggregator
type Option func(*Aggregator)

// WithWebLimit sets how many search candidates are requested
func WithWebLimit(n int) Option {
	return func(a *Aggregator) {
		a.webLimit = n
	}
}

// WithLiveWindow sets the live feed recency window
func WithLiveWindow(d time.Duration) Option {
	return func(a *Aggregator) {
		a.liveWindow = d
	}
}

// New creates an Aggregator. A nil collector contributes no evidence.
func New(file FileCollector, web WebCollector, live LiveCollector, opts ...Option) *Aggregator {
	a := &Aggregator{
		file:       file,
		web:        web,
		live:       live,
		webLimit:   DefaultWebLimit,
		liveWindow: DefaultLiveWindow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate runs the enabled channels concurrently and concatenates their
// evidence as files, web, live. It fails with model.ErrNoEvidence when the
// combined list is empty.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) (*Result, error) {
	var (
		files, web, live []model.Evidence
		g                errgroup.Group
	)

	if req.IncludeFiles && a.file != nil {
		g.Go(func() error {
			files = collect(ctx, types.ChannelFile, func() []model.Evidence {
				return a.file.Collect(ctx, req.UserID, req.Query)
			})
			return nil
		})
	}
	if req.IncludeWeb && a.web != nil {
		g.Go(func() error {
			web = collect(ctx, types.ChannelWeb, func() []model.Evidence {
				return a.web.Collect(ctx, req.Query, a.webLimit)
			})
			return nil
		})
	}
	if req.IncludeLive && a.live != nil {
		g.Go(func() error {
			live = collect(ctx, types.ChannelLive, func() []model.Evidence {
				return a.live.Collect(ctx, req.Query, a.liveWindow)
			})
			return nil
		})
	}
	_ = g.Wait()

	evidence := make([]model.Evidence, 0, len(files)+len(web)+len(live))
	evidence = append(evidence, files...)
	evidence = append(evidence, web...)
	evidence = append(evidence, live...)

	if len(evidence) == 0 {
		return nil, goerr.Wrap(model.ErrNoEvidence, "no channel produced evidence",
			goerr.V(model.UserIDKey, req.UserID),
			goerr.V(model.QueryKey, req.Query),
			goerr.V("include_files", req.IncludeFiles),
			goerr.V("include_web", req.IncludeWeb),
			goerr.V("include_live", req.IncludeLive))
	}

	result := &Result{
		Evidence:  evidence,
		Breakdown: model.NewSourceBreakdown(evidence),
	}

	logging.From(ctx).Info("evidence aggregated",
		"user_id", req.UserID,
		"files", result.Breakdown.Files,
		"web", result.Breakdown.Web,
		"live", result.Breakdown.Live)
	return result, nil
}

// collect runs one channel; a panic is absorbed as an empty channel
func collect(ctx context.Context, channel types.Channel, fn func() []model.Evidence) (evidence []model.Evidence) {
	defer func() {
		if r := recover(); r != nil {
			err := goerr.New("evidence channel panicked",
				goerr.V("channel", channel),
				goerr.V("panic", fmt.Sprint(r)))
			_ = errutil.Handle(ctx, err, "evidence channel failed")
			evidence = nil
		}
	}()

	return fn()
}
