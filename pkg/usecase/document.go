package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/briefwise/briefwise/pkg/domain/interfaces"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/service/storage"
	"github.com/briefwise/briefwise/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// DocumentUseCase manages the documents a user uploads as file evidence.
// Text extraction happens before upload; the raw bytes are kept in blob
// storage only when one is configured.
type DocumentUseCase struct {
	repo  interfaces.Repository
	blobs storage.BlobStore
}

func NewDocumentUseCase(repo interfaces.Repository, blobs storage.BlobStore) *DocumentUseCase {
	return &DocumentUseCase{
		repo:  repo,
		blobs: blobs,
	}
}

func (uc *DocumentUseCase) Upload(ctx context.Context, userID, title, content string, raw []byte) (*model.Document, error) {
	if userID == "" {
		return nil, goerr.Wrap(ErrInvalidUser, "failed to upload document")
	}
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return nil, goerr.Wrap(ErrInvalidDocument, "failed to upload document",
			goerr.V(model.UserIDKey, userID))
	}

	doc := &model.Document{
		ID:      model.NewDocumentID(),
		UserID:  userID,
		Title:   title,
		Content: content,
	}

	if uc.blobs != nil && len(raw) > 0 {
		path, err := uc.blobs.Put(ctx, storage.DocumentPath(userID, doc.ID), http.DetectContentType(raw), raw)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to store raw upload",
				goerr.V(model.UserIDKey, userID),
				goerr.V(DocumentIDKey, doc.ID))
		}
		doc.BlobPath = path
	}

	created, err := uc.repo.Document().Create(ctx, doc)
	if err != nil {
		if doc.BlobPath != "" {
			if delErr := uc.blobs.Delete(ctx, doc.BlobPath); delErr != nil {
				_ = errutil.Handle(ctx, delErr, "failed to remove orphaned upload")
			}
		}
		return nil, goerr.Wrap(err, "failed to create document",
			goerr.V(model.UserIDKey, userID),
			goerr.V(DocumentIDKey, doc.ID))
	}

	return created, nil
}

func (uc *DocumentUseCase) List(ctx context.Context, userID string) ([]*model.Document, error) {
	docs, err := uc.repo.Document().List(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents", goerr.V(model.UserIDKey, userID))
	}
	return docs, nil
}

// Delete removes the document and, best effort, its raw upload
func (uc *DocumentUseCase) Delete(ctx context.Context, userID string, id model.DocumentID) error {
	doc, err := uc.repo.Document().Get(ctx, userID, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get document",
			goerr.V(model.UserIDKey, userID),
			goerr.V(DocumentIDKey, id))
	}

	if err := uc.repo.Document().Delete(ctx, userID, id); err != nil {
		return goerr.Wrap(err, "failed to delete document",
			goerr.V(model.UserIDKey, userID),
			goerr.V(DocumentIDKey, id))
	}

	if uc.blobs != nil && doc.BlobPath != "" {
		if err := uc.blobs.Delete(ctx, doc.BlobPath); err != nil {
			_ = errutil.Handle(ctx, err, "failed to delete raw upload")
		}
	}

	return nil
}
