package memory

import (
	"context"
	"sync"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type documentRepository struct {
	mu sync.RWMutex
	// documents keeps insertion order per user
	documents map[string][]*model.Document
}

func newDocumentRepository() *documentRepository {
	return &documentRepository{
		documents: make(map[string][]*model.Document),
	}
}

func copyDocument(d *model.Document) *model.Document {
	copied := *d
	return &copied
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyDocument(doc)
	if created.ID == "" {
		created.ID = model.NewDocumentID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.documents[created.UserID] = append(r.documents[created.UserID], created)
	return copyDocument(created), nil
}

func (r *documentRepository) Get(ctx context.Context, userID string, id model.DocumentID) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.documents[userID] {
		if d.ID == id {
			return copyDocument(d), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id), goerr.V(model.UserIDKey, userID))
}

func (r *documentRepository) List(ctx context.Context, userID string) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := r.documents[userID]
	result := make([]*model.Document, 0, len(docs))
	for _, d := range docs {
		result = append(result, copyDocument(d))
	}

	return result, nil
}

func (r *documentRepository) Delete(ctx context.Context, userID string, id model.DocumentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs := r.documents[userID]
	for i, d := range docs {
		if d.ID == id {
			r.documents[userID] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}

	return goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id), goerr.V(model.UserIDKey, userID))
}
