package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type reportRepository struct {
	mu      sync.RWMutex
	reports map[string]map[model.ReportID]*model.Report
	users   *userRepository
}

func newReportRepository(users *userRepository) *reportRepository {
	return &reportRepository{
		reports: make(map[string]map[model.ReportID]*model.Report),
		users:   users,
	}
}

// copyReport creates a deep copy of a report
func copyReport(r *model.Report) *model.Report {
	copied := *r

	if r.KeyInsights != nil {
		copied.KeyInsights = make([]string, len(r.KeyInsights))
		copy(copied.KeyInsights, r.KeyInsights)
	}
	if r.Sources != nil {
		copied.Sources = make([]model.Evidence, len(r.Sources))
		copy(copied.Sources, r.Sources)
	}
	if r.Citations != nil {
		copied.Citations = make([]model.Citation, len(r.Citations))
		copy(copied.Citations, r.Citations)
	}

	return &copied
}

func (r *reportRepository) Commit(ctx context.Context, report *model.Report) (*model.Report, error) {
	// Lock order: users then reports, so the ledger and the report change together
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users.users[report.UserID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V(model.UserIDKey, report.UserID))
	}
	if !user.CanAfford(report.Cost) {
		return nil, goerr.Wrap(model.ErrInsufficientCredits, "cannot commit report",
			goerr.V(model.UserIDKey, report.UserID),
			goerr.V("credits", user.Credits),
			goerr.V("cost", report.Cost))
	}

	created := copyReport(report)
	if created.ID == "" {
		created.ID = model.NewReportID()
	}
	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}

	if _, exists := r.reports[created.UserID]; !exists {
		r.reports[created.UserID] = make(map[model.ReportID]*model.Report)
	}
	r.reports[created.UserID][created.ID] = created

	user.Credits -= created.Cost
	user.ReportCount++
	user.UpdatedAt = now

	return copyReport(created), nil
}

func (r *reportRepository) Get(ctx context.Context, userID string, id model.ReportID) (*model.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, exists := r.reports[userID][id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "report not found", goerr.V(model.ReportIDKey, id), goerr.V(model.UserIDKey, userID))
	}

	return copyReport(report), nil
}

func (r *reportRepository) List(ctx context.Context, userID string) ([]*model.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.reports[userID]
	result := make([]*model.Report, 0, len(bucket))
	for _, report := range bucket {
		result = append(result, copyReport(report))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}
