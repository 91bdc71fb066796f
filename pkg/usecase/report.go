package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/interfaces"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/service/evidence"
	"github.com/briefwise/briefwise/pkg/service/slack"
	"github.com/briefwise/briefwise/pkg/service/synth"
	"github.com/briefwise/briefwise/pkg/utils/async"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Aggregator collects evidence for a request from the enabled channels
type Aggregator interface {
	Aggregate(ctx context.Context, req evidence.Request) (*evidence.Result, error)
}

// GenerateInput is one report request
type GenerateInput struct {
	UserID       string
	Query        string
	IncludeFiles bool
	IncludeWeb   bool
	IncludeLive  bool
}

// ReportUseCase generates reports and charges the owner for them
type ReportUseCase struct {
	repo           interfaces.Repository
	aggregator     Aggregator
	synthesizer    synth.Service
	notifier       slack.Notifier
	cost           int
	initialCredits int
	timeout        time.Duration
}

// Generate aggregates evidence, synthesizes a report and commits it together
// with the credit charge. Errors from aggregation and synthesis are returned
// as they are so callers can match model.ErrNoEvidence and
// model.ErrSynthesisFailed.
func (uc *ReportUseCase) Generate(ctx context.Context, input GenerateInput) (*model.Report, error) {
	if input.UserID == "" {
		return nil, goerr.Wrap(ErrInvalidUser, "failed to generate report")
	}
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, goerr.Wrap(ErrInvalidQuery, "failed to generate report",
			goerr.V(model.UserIDKey, input.UserID))
	}

	user, err := uc.repo.User().GetOrCreate(ctx, input.UserID, uc.initialCredits)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, input.UserID))
	}
	if !user.CanAfford(uc.cost) {
		return nil, goerr.Wrap(model.ErrInsufficientCredits, "user cannot afford a report",
			goerr.V(model.UserIDKey, input.UserID),
			goerr.V(CreditsKey, user.Credits),
			goerr.V(CostKey, uc.cost))
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	report, err := uc.run(ctx, query, input)
	if err != nil {
		return nil, err
	}

	report.UserID = input.UserID
	report.Query = query
	report.Cost = uc.cost

	committed, err := uc.repo.Report().Commit(ctx, report)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to commit report",
			goerr.V(model.UserIDKey, input.UserID),
			goerr.V(CostKey, uc.cost))
	}

	logging.From(ctx).Info("Report generated",
		"report_id", committed.ID,
		"user_id", committed.UserID,
		"files", committed.SourceBreakdown.Files,
		"web", committed.SourceBreakdown.Web,
		"live", committed.SourceBreakdown.Live,
		"processing_time_ms", committed.ProcessingTimeMS)

	if uc.notifier != nil {
		notifier := uc.notifier
		notified := *committed
		async.Dispatch(ctx, func(ctx context.Context) error {
			return notifier.NotifyReport(ctx, &notified)
		})
	}

	return committed, nil
}

// run is the timed section: from just before aggregation to just after synthesis
func (uc *ReportUseCase) run(ctx context.Context, query string, input GenerateInput) (*model.Report, error) {
	start := time.Now()

	result, err := uc.aggregator.Aggregate(ctx, evidence.Request{
		UserID:       input.UserID,
		Query:        query,
		IncludeFiles: input.IncludeFiles,
		IncludeWeb:   input.IncludeWeb,
		IncludeLive:  input.IncludeLive,
	})
	if err != nil {
		return nil, err
	}

	report, err := uc.synthesizer.Synthesize(ctx, query, result.Evidence)
	if err != nil {
		return nil, err
	}

	report.ProcessingTimeMS = time.Since(start).Milliseconds()
	report.SourceBreakdown = result.Breakdown

	return report, nil
}

// List returns the user's reports, newest first
func (uc *ReportUseCase) List(ctx context.Context, userID string) ([]*model.Report, error) {
	if userID == "" {
		return nil, goerr.Wrap(ErrInvalidUser, "failed to list reports")
	}

	reports, err := uc.repo.Report().List(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list reports", goerr.V(model.UserIDKey, userID))
	}
	return reports, nil
}

// Get returns one report owned by the user
func (uc *ReportUseCase) Get(ctx context.Context, userID string, id model.ReportID) (*model.Report, error) {
	report, err := uc.repo.Report().Get(ctx, userID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get report",
			goerr.V(model.UserIDKey, userID),
			goerr.V(model.ReportIDKey, id))
	}
	return report, nil
}
