package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type userRepository struct {
	db *sql.DB
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getUser(ctx context.Context, q queryer, id string) (*model.User, error) {
	var (
		u                    model.User
		createdAt, updatedAt int64
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, credits, report_count, created_at, updated_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Credits, &u.ReportCount, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V(model.UserIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, id))
	}

	u.CreatedAt = fromUnix(createdAt)
	u.UpdatedAt = fromUnix(updatedAt)
	return &u, nil
}

func (r *userRepository) GetOrCreate(ctx context.Context, id string, initialCredits int) (*model.User, error) {
	now := toUnix(time.Now().UTC())
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, credits, report_count, created_at, updated_at) VALUES (?, ?, 0, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		id, initialCredits, now, now,
	); err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V(model.UserIDKey, id))
	}

	return getUser(ctx, r.db, id)
}

func (r *userRepository) AddCredits(ctx context.Context, id string, amount int) (*model.User, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET credits = credits + ?, updated_at = ? WHERE id = ?`,
		amount, toUnix(time.Now().UTC()), id,
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to add credits", goerr.V(model.UserIDKey, id))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V(model.UserIDKey, id))
	}

	return getUser(ctx, r.db, id)
}
