package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/briefwise/briefwise/pkg/domain/interfaces"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when an entity does not exist
var ErrNotFound = model.ErrNotFound

type Firestore struct {
	client   *firestore.Client
	document *documentRepository
	feed     *feedRepository
	report   *reportRepository
	user     *userRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// collections resolves collection names with an optional prefix shared by all repositories
type collections struct {
	prefix string
}

func (c *collections) name(base string) string {
	return CollectionName(c.prefix, base)
}

// FeedEntriesCollection holds live channel entries. It is the only collection
// queried with a composite ordering.
const FeedEntriesCollection = "feed_entries"

// CollectionName returns base with the optional prefix applied
func CollectionName(prefix, base string) string {
	if prefix != "" {
		return prefix + "_" + base
	}
	return base
}

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.document.cols.prefix = prefix
		f.feed.cols.prefix = prefix
		f.report.cols.prefix = prefix
		f.user.cols.prefix = prefix
	}
}

// New creates a Firestore backed repository. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:   client,
		document: newDocumentRepository(client),
		feed:     newFeedRepository(client),
		report:   newReportRepository(client),
		user:     newUserRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Document() interfaces.DocumentRepository {
	return f.document
}

func (f *Firestore) Feed() interfaces.FeedRepository {
	return f.feed
}

func (f *Firestore) Report() interfaces.ReportRepository {
	return f.report
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
