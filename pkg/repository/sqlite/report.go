package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type reportRepository struct {
	db *sql.DB
}

const reportColumns = `id, user_id, query, title, executive_summary, key_insights, sources, citations,
	confidence, processing_time_ms, source_breakdown, cost, created_at`

func (r *reportRepository) Commit(ctx context.Context, report *model.Report) (*model.Report, error) {
	created := *report
	if created.ID == "" {
		created.ID = model.NewReportID()
	}
	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}

	insights, err := json.Marshal(created.KeyInsights)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode key insights")
	}
	sources, err := json.Marshal(created.Sources)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode sources")
	}
	citations, err := json.Marshal(created.Citations)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode citations")
	}
	breakdown, err := json.Marshal(created.SourceBreakdown)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode source breakdown")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	owner, err := getUser(ctx, tx, created.UserID)
	if err != nil {
		return nil, err
	}
	if !owner.CanAfford(created.Cost) {
		return nil, goerr.Wrap(model.ErrInsufficientCredits, "cannot commit report",
			goerr.V(model.UserIDKey, created.UserID),
			goerr.V("credits", owner.Credits),
			goerr.V("cost", created.Cost))
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reports (`+reportColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.UserID, created.Query, created.Title, created.ExecutiveSummary,
		string(insights), string(sources), string(citations),
		created.Confidence, created.ProcessingTimeMS, string(breakdown), created.Cost, toUnix(created.CreatedAt),
	); err != nil {
		return nil, goerr.Wrap(err, "failed to insert report", goerr.V(model.ReportIDKey, created.ID))
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET credits = credits - ?, report_count = report_count + 1, updated_at = ? WHERE id = ?`,
		created.Cost, toUnix(now), created.UserID,
	); err != nil {
		return nil, goerr.Wrap(err, "failed to charge user", goerr.V(model.UserIDKey, created.UserID))
	}

	if err := tx.Commit(); err != nil {
		return nil, goerr.Wrap(err, "failed to commit report", goerr.V(model.ReportIDKey, created.ID))
	}

	created.CreatedAt = fromUnix(toUnix(created.CreatedAt))
	return &created, nil
}

func scanReport(row rowScanner) (*model.Report, error) {
	var report model.Report
	var insights, sources, citations, breakdown string
	var createdAt int64
	if err := row.Scan(&report.ID, &report.UserID, &report.Query, &report.Title, &report.ExecutiveSummary,
		&insights, &sources, &citations,
		&report.Confidence, &report.ProcessingTimeMS, &breakdown, &report.Cost, &createdAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(insights), &report.KeyInsights); err != nil {
		return nil, goerr.Wrap(err, "failed to decode key insights")
	}
	if err := json.Unmarshal([]byte(sources), &report.Sources); err != nil {
		return nil, goerr.Wrap(err, "failed to decode sources")
	}
	if err := json.Unmarshal([]byte(citations), &report.Citations); err != nil {
		return nil, goerr.Wrap(err, "failed to decode citations")
	}
	if err := json.Unmarshal([]byte(breakdown), &report.SourceBreakdown); err != nil {
		return nil, goerr.Wrap(err, "failed to decode source breakdown")
	}
	report.CreatedAt = fromUnix(createdAt)

	return &report, nil
}

func (r *reportRepository) Get(ctx context.Context, userID string, id model.ReportID) (*model.Report, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE user_id = ? AND id = ?`, userID, id)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(ErrNotFound, "report not found", goerr.V(model.UserIDKey, userID), goerr.V(model.ReportIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get report", goerr.V(model.UserIDKey, userID), goerr.V(model.ReportIDKey, id))
	}

	return report, nil
}

func (r *reportRepository) List(ctx context.Context, userID string) ([]*model.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list reports", goerr.V(model.UserIDKey, userID))
	}
	defer rows.Close()

	reports := []*model.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan report", goerr.V(model.UserIDKey, userID))
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate reports", goerr.V(model.UserIDKey, userID))
	}

	return reports, nil
}
