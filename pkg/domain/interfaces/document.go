package interfaces

import (
	"context"

	"github.com/briefwise/briefwise/pkg/domain/model"
)

// DocumentRepository defines the interface for user document persistence
type DocumentRepository interface {
	// Create stores a new document. ID and CreatedAt are assigned when empty.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Get retrieves a document owned by userID
	Get(ctx context.Context, userID string, id model.DocumentID) (*model.Document, error)

	// List retrieves all documents owned by userID, oldest first
	List(ctx context.Context, userID string) ([]*model.Document, error)

	// Delete removes a document owned by userID
	Delete(ctx context.Context, userID string, id model.DocumentID) error
}
