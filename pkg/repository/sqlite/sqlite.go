package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/interfaces"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an entity does not exist
var ErrNotFound = model.ErrNotFound

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	credits INTEGER NOT NULL,
	report_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	blob_path TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(user_id, created_at);

CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	query TEXT NOT NULL,
	title TEXT NOT NULL,
	executive_summary TEXT NOT NULL,
	key_insights TEXT NOT NULL,
	sources TEXT NOT NULL,
	citations TEXT NOT NULL,
	confidence REAL NOT NULL,
	processing_time_ms INTEGER NOT NULL,
	source_breakdown TEXT NOT NULL,
	cost INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_user ON reports(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS feed_entries (
	id TEXT PRIMARY KEY,
	feed TEXT NOT NULL,
	title TEXT NOT NULL,
	locator TEXT NOT NULL,
	content TEXT NOT NULL,
	published_at INTEGER NOT NULL,
	fetched_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_feed_entries_published ON feed_entries(published_at DESC);
`

type SQLite struct {
	db       *sql.DB
	document *documentRepository
	feed     *feedRepository
	report   *reportRepository
	user     *userRepository
}

var _ interfaces.Repository = &SQLite{}

// New opens or creates the database file at path and applies the schema
func New(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("path", path))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite", goerr.V("path", path))
	}
	// SQLite allows one writer; a single connection serializes Commit transactions
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to ping sqlite", goerr.V("path", path))
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to apply schema", goerr.V("path", path))
	}

	return &SQLite{
		db:       db,
		document: &documentRepository{db: db},
		feed:     &feedRepository{db: db},
		report:   &reportRepository{db: db},
		user:     &userRepository{db: db},
	}, nil
}

func (s *SQLite) Document() interfaces.DocumentRepository {
	return s.document
}

func (s *SQLite) Feed() interfaces.FeedRepository {
	return s.feed
}

func (s *SQLite) Report() interfaces.ReportRepository {
	return s.report
}

func (s *SQLite) User() interfaces.UserRepository {
	return s.user
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func toUnix(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
