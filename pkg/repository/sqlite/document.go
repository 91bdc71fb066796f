package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type documentRepository struct {
	db *sql.DB
}

const documentColumns = `id, user_id, title, content, blob_path, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d         model.Document
		createdAt int64
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.Title, &d.Content, &d.BlobPath, &createdAt); err != nil {
		return nil, err
	}
	d.CreatedAt = fromUnix(createdAt)
	return &d, nil
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	created := *doc
	if created.ID == "" {
		created.ID = model.NewDocumentID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (`+documentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		created.ID, created.UserID, created.Title, created.Content, created.BlobPath, toUnix(created.CreatedAt),
	); err != nil {
		return nil, goerr.Wrap(err, "failed to create document",
			goerr.V(model.UserIDKey, created.UserID),
			goerr.V("document_id", created.ID))
	}

	created.CreatedAt = fromUnix(toUnix(created.CreatedAt))
	return &created, nil
}

func (r *documentRepository) Get(ctx context.Context, userID string, id model.DocumentID) (*model.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE user_id = ? AND id = ?`, userID, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V(model.UserIDKey, userID), goerr.V("document_id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get document", goerr.V(model.UserIDKey, userID), goerr.V("document_id", id))
	}

	return doc, nil
}

func (r *documentRepository) List(ctx context.Context, userID string) ([]*model.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE user_id = ? ORDER BY created_at ASC, rowid ASC`, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents", goerr.V(model.UserIDKey, userID))
	}
	defer rows.Close()

	var docs []*model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan document", goerr.V(model.UserIDKey, userID))
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate documents", goerr.V(model.UserIDKey, userID))
	}

	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, userID string, id model.DocumentID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete document", goerr.V(model.UserIDKey, userID), goerr.V("document_id", id))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return goerr.Wrap(ErrNotFound, "document not found", goerr.V(model.UserIDKey, userID), goerr.V("document_id", id))
	}

	return nil
}
