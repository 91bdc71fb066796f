package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/repository/memory"
	"github.com/briefwise/briefwise/pkg/service/storage"
	"github.com/briefwise/briefwise/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestDocumentUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("upload without blob store keeps text only", func(t *testing.T) {
		uc := usecase.NewDocumentUseCase(memory.New(), nil)

		doc, err := uc.Upload(ctx, "user-1", " Notes ", "quarterly notes", []byte("%PDF-1.4"))
		gt.NoError(t, err).Required()
		gt.Value(t, doc.Title).Equal("Notes")
		gt.Value(t, doc.BlobPath).Equal("")
		gt.Value(t, doc.ID).NotEqual(model.DocumentID(""))
	})

	t.Run("upload with blob store keeps raw bytes", func(t *testing.T) {
		blobs := storage.NewMemory()
		uc := usecase.NewDocumentUseCase(memory.New(), blobs)

		doc, err := uc.Upload(ctx, "user-1", "Notes", "quarterly notes", []byte("raw"))
		gt.NoError(t, err).Required()
		gt.Value(t, doc.BlobPath).Equal(storage.DocumentPath("user-1", doc.ID))

		data, err := blobs.Get(ctx, doc.BlobPath)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("raw")

		t.Run("delete removes the raw upload", func(t *testing.T) {
			gt.NoError(t, uc.Delete(ctx, "user-1", doc.ID)).Required()

			_, err := blobs.Get(ctx, doc.BlobPath)
			gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()

			docs, err := uc.List(ctx, "user-1")
			gt.NoError(t, err).Required()
			gt.Array(t, docs).Length(0)
		})
	})

	t.Run("missing title or content is rejected", func(t *testing.T) {
		uc := usecase.NewDocumentUseCase(memory.New(), nil)

		_, err := uc.Upload(ctx, "user-1", "", "content", nil)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidDocument)).True()

		_, err = uc.Upload(ctx, "user-1", "title", "  ", nil)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidDocument)).True()
	})

	t.Run("list is scoped to the owner", func(t *testing.T) {
		uc := usecase.NewDocumentUseCase(memory.New(), nil)

		_, err := uc.Upload(ctx, "user-1", "A", "alpha", nil)
		gt.NoError(t, err).Required()
		_, err = uc.Upload(ctx, "user-2", "B", "beta", nil)
		gt.NoError(t, err).Required()

		docs, err := uc.List(ctx, "user-1")
		gt.NoError(t, err).Required()
		gt.Array(t, docs).Length(1).Required()
		gt.Value(t, docs[0].Title).Equal("A")
	})

	t.Run("delete of another user's document is not found", func(t *testing.T) {
		uc := usecase.NewDocumentUseCase(memory.New(), nil)

		doc, err := uc.Upload(ctx, "user-1", "A", "alpha", nil)
		gt.NoError(t, err).Required()

		err = uc.Delete(ctx, "user-2", doc.ID)
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})
}
