package storage_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/service/storage"
	"github.com/m-mizutani/gt"
)

func runBlobStoreTest(t *testing.T, store storage.BlobStore) {
	ctx := context.Background()
	objectPath := storage.DocumentPath(fmt.Sprintf("user-%d", time.Now().UnixNano()), model.NewDocumentID())

	t.Run("put then get", func(t *testing.T) {
		stored, err := store.Put(ctx, objectPath, "text/plain", []byte("raw bytes"))
		gt.NoError(t, err).Required()
		gt.Value(t, stored).Equal(objectPath)

		data, err := store.Get(ctx, objectPath)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("raw bytes")
	})

	t.Run("delete then get is not found", func(t *testing.T) {
		gt.NoError(t, store.Delete(ctx, objectPath)).Required()

		_, err := store.Get(ctx, objectPath)
		gt.Bool(t, errors.Is(err, model.ErrNotFound)).True()
	})

	t.Run("delete missing object is not an error", func(t *testing.T) {
		gt.NoError(t, store.Delete(ctx, objectPath))
	})
}

func TestMemory(t *testing.T) {
	runBlobStoreTest(t, storage.NewMemory())
}

func TestGCS(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET is not set")
	}

	store, err := storage.NewGCS(context.Background(), bucket, storage.WithPrefix("test"))
	gt.NoError(t, err).Required()
	defer func() { _ = store.Close() }()

	runBlobStoreTest(t, store)
}

func TestNewGCS_EmptyBucket(t *testing.T) {
	_, err := storage.NewGCS(context.Background(), "")
	gt.Value(t, err).NotNil()
}

func TestDocumentPath(t *testing.T) {
	gt.Value(t, storage.DocumentPath("u1", model.DocumentID("d1"))).Equal("documents/u1/d1")
}
