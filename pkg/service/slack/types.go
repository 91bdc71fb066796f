package slack

import (
	"context"

	"github.com/briefwise/briefwise/pkg/domain/model"
)

// Notifier announces finished reports
type Notifier interface {
	// NotifyReport posts a Block Kit summary of the report to the configured channel
	NotifyReport(ctx context.Context, report *model.Report) error
}

// Noop is used when Slack is not configured
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) NotifyReport(ctx context.Context, report *model.Report) error {
	return nil
}
