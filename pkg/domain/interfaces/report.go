package interfaces

import (
	"context"

	"github.com/briefwise/briefwise/pkg/domain/model"
)

// ReportRepository defines the interface for report persistence
type ReportRepository interface {
	// Commit atomically stores the report, increments the owner's report
	// count and decrements the owner's credits by report.Cost. It returns
	// model.ErrInsufficientCredits without writing anything when the owner
	// cannot pay.
	Commit(ctx context.Context, report *model.Report) (*model.Report, error)

	// Get retrieves a report owned by userID
	Get(ctx context.Context, userID string, id model.ReportID) (*model.Report, error)

	// List retrieves reports owned by userID, newest first
	List(ctx context.Context, userID string) ([]*model.Report, error)
}
