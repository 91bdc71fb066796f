package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type feedRepository struct {
	db *sql.DB
}

func (r *feedRepository) Upsert(ctx context.Context, entries []*model.FeedEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO feed_entries (id, feed, title, locator, content, published_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			feed = excluded.feed,
			title = excluded.title,
			content = excluded.content,
			published_at = excluded.published_at,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return goerr.Wrap(err, "failed to prepare feed upsert")
	}
	defer stmt.Close()

	for _, e := range entries {
		id := e.ID
		if id == "" {
			id = model.NewFeedEntryID(e.Locator)
		}
		if _, err := stmt.ExecContext(ctx,
			id, e.Feed, e.Title, e.Locator, e.Content, toUnix(e.PublishedAt), toUnix(e.FetchedAt),
		); err != nil {
			return goerr.Wrap(err, "failed to upsert feed entry", goerr.V("entry_id", id))
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM feed_entries WHERE id NOT IN (
			SELECT id FROM feed_entries ORDER BY published_at DESC, id ASC LIMIT ?
		)`, model.FeedRetention,
	); err != nil {
		return goerr.Wrap(err, "failed to trim feed entries")
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit feed entries")
	}
	return nil
}

func (r *feedRepository) ListSince(ctx context.Context, since time.Time) ([]*model.FeedEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, feed, title, locator, content, published_at, fetched_at
		FROM feed_entries WHERE published_at >= ?
		ORDER BY published_at DESC, id ASC`, toUnix(since))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list feed entries", goerr.V("since", since))
	}
	defer rows.Close()

	var entries []*model.FeedEntry
	for rows.Next() {
		var (
			e                      model.FeedEntry
			publishedAt, fetchedAt int64
		)
		if err := rows.Scan(&e.ID, &e.Feed, &e.Title, &e.Locator, &e.Content, &publishedAt, &fetchedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan feed entry")
		}
		e.PublishedAt = fromUnix(publishedAt)
		e.FetchedAt = fromUnix(fetchedAt)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate feed entries")
	}

	return entries, nil
}
