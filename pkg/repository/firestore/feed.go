package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type feedEntryDocument struct {
	ID          string    `firestore:"id"`
	Feed        string    `firestore:"feed"`
	Title       string    `firestore:"title"`
	Locator     string    `firestore:"locator"`
	Content     string    `firestore:"content"`
	PublishedAt time.Time `firestore:"published_at"`
	FetchedAt   time.Time `firestore:"fetched_at"`
}

type feedRepository struct {
	client *firestore.Client
	cols   collections
}

func newFeedRepository(client *firestore.Client) *feedRepository {
	return &feedRepository{client: client}
}

func (r *feedRepository) entriesCollection() *firestore.CollectionRef {
	return r.client.Collection(r.cols.name(FeedEntriesCollection))
}

func feedEntryToDocument(e *model.FeedEntry) *feedEntryDocument {
	return &feedEntryDocument{
		ID:          string(e.ID),
		Feed:        e.Feed,
		Title:       e.Title,
		Locator:     e.Locator,
		Content:     e.Content,
		PublishedAt: e.PublishedAt,
		FetchedAt:   e.FetchedAt,
	}
}

func feedEntryToModel(doc *feedEntryDocument) *model.FeedEntry {
	return &model.FeedEntry{
		ID:          model.FeedEntryID(doc.ID),
		Feed:        doc.Feed,
		Title:       doc.Title,
		Locator:     doc.Locator,
		Content:     doc.Content,
		PublishedAt: doc.PublishedAt,
		FetchedAt:   doc.FetchedAt,
	}
}

// maxBatchWrites is the Firestore limit of writes per commit
const maxBatchWrites = 500

func (r *feedRepository) Upsert(ctx context.Context, entries []*model.FeedEntry) error {
	for start := 0; start < len(entries); start += maxBatchWrites {
		end := min(start+maxBatchWrites, len(entries))
		chunk := entries[start:end]

		err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			for _, e := range chunk {
				doc := feedEntryToDocument(e)
				if doc.ID == "" {
					doc.ID = string(model.NewFeedEntryID(e.Locator))
				}
				if err := tx.Set(r.entriesCollection().Doc(doc.ID), doc); err != nil {
					return goerr.Wrap(err, "failed to set feed entry", goerr.V("entry_id", doc.ID))
				}
			}
			return nil
		})
		if err != nil {
			return goerr.Wrap(err, "failed to upsert feed entries", goerr.V("count", len(chunk)))
		}
	}

	return r.trim(ctx)
}

// trim deletes everything beyond the newest model.FeedRetention entries.
// Ordering by (published_at DESC, id ASC) needs the composite index created by
// the migrate command.
func (r *feedRepository) trim(ctx context.Context) error {
	iter := r.entriesCollection().
		OrderBy("published_at", firestore.Desc).
		OrderBy("id", firestore.Asc).
		Offset(model.FeedRetention).
		Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate stale feed entries")
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete stale feed entry", goerr.V("entry_id", snap.Ref.ID))
		}
	}

	return nil
}

func (r *feedRepository) ListSince(ctx context.Context, since time.Time) ([]*model.FeedEntry, error) {
	iter := r.entriesCollection().
		Where("published_at", ">=", since).
		OrderBy("published_at", firestore.Desc).
		OrderBy("id", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var entries []*model.FeedEntry
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate feed entries", goerr.V("since", since))
		}

		var doc feedEntryDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal feed entry", goerr.V("entry_id", snap.Ref.ID))
		}
		entries = append(entries, feedEntryToModel(&doc))
	}

	return entries, nil
}
