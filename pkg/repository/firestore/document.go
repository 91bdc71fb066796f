package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type documentDocument struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"user_id"`
	Title     string    `firestore:"title"`
	Content   string    `firestore:"content"`
	BlobPath  string    `firestore:"blob_path,omitempty"`
	CreatedAt time.Time `firestore:"created_at"`
}

type documentRepository struct {
	client *firestore.Client
	cols   collections
}

func newDocumentRepository(client *firestore.Client) *documentRepository {
	return &documentRepository{client: client}
}

func (r *documentRepository) documentsCollection(userID string) *firestore.CollectionRef {
	return userRef(r.client, &r.cols, userID).Collection("documents")
}

func documentToDocument(d *model.Document) *documentDocument {
	return &documentDocument{
		ID:        string(d.ID),
		UserID:    d.UserID,
		Title:     d.Title,
		Content:   d.Content,
		BlobPath:  d.BlobPath,
		CreatedAt: d.CreatedAt,
	}
}

func documentToModel(doc *documentDocument) *model.Document {
	return &model.Document{
		ID:        model.DocumentID(doc.ID),
		UserID:    doc.UserID,
		Title:     doc.Title,
		Content:   doc.Content,
		BlobPath:  doc.BlobPath,
		CreatedAt: doc.CreatedAt,
	}
}

func (r *documentRepository) Create(ctx context.Context, d *model.Document) (*model.Document, error) {
	created := *d
	if created.ID == "" {
		created.ID = model.NewDocumentID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	doc := documentToDocument(&created)
	if _, err := r.documentsCollection(created.UserID).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create document",
			goerr.V(model.UserIDKey, created.UserID),
			goerr.V("document_id", created.ID))
	}

	return documentToModel(doc), nil
}

func (r *documentRepository) Get(ctx context.Context, userID string, id model.DocumentID) (*model.Document, error) {
	snap, err := r.documentsCollection(userID).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V(model.UserIDKey, userID), goerr.V("document_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get document", goerr.V(model.UserIDKey, userID), goerr.V("document_id", id))
	}

	var doc documentDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal document", goerr.V("document_id", id))
	}

	return documentToModel(&doc), nil
}

func (r *documentRepository) List(ctx context.Context, userID string) ([]*model.Document, error) {
	iter := r.documentsCollection(userID).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var docs []*model.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents", goerr.V(model.UserIDKey, userID))
		}

		var doc documentDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal document", goerr.V("document_id", snap.Ref.ID))
		}
		docs = append(docs, documentToModel(&doc))
	}

	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, userID string, id model.DocumentID) error {
	docRef := r.documentsCollection(userID).Doc(string(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "document not found", goerr.V(model.UserIDKey, userID), goerr.V("document_id", id))
		}
		return goerr.Wrap(err, "failed to get document", goerr.V(model.UserIDKey, userID), goerr.V("document_id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete document", goerr.V(model.UserIDKey, userID), goerr.V("document_id", id))
	}

	return nil
}
