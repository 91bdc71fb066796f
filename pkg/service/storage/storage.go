package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// BlobStore keeps raw uploads next to their extracted text
type BlobStore interface {
	// Put stores data at objectPath and returns the path it was stored under
	Put(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
	// Get returns the stored bytes
	Get(ctx context.Context, objectPath string) ([]byte, error)
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, objectPath string) error
}

// DocumentPath returns the object path of a user's raw upload
func DocumentPath(userID string, id model.DocumentID) string {
	return path.Join("documents", userID, id.String())
}

// GCS stores blobs in a Cloud Storage bucket
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ BlobStore = &GCS{}

// GCSOption configures GCS
type GCSOption func(*GCS)

// WithPrefix prepends prefix to every object path
func WithPrefix(prefix string) GCSOption {
	return func(g *GCS) {
		g.prefix = prefix
	}
}

// NewGCS creates a bucket-backed BlobStore using application default credentials
func NewGCS(ctx context.Context, bucket string, opts ...GCSOption) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	g := &GCS{client: client, bucket: bucket}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *GCS) object(objectPath string) *storage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(path.Join(g.prefix, objectPath))
}

func (g *GCS) Put(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	w := g.object(objectPath).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write object",
			goerr.V("bucket", g.bucket), goerr.V("path", objectPath))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object",
			goerr.V("bucket", g.bucket), goerr.V("path", objectPath))
	}

	return objectPath, nil
}

func (g *GCS) Get(ctx context.Context, objectPath string) ([]byte, error) {
	r, err := g.object(objectPath).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(model.ErrNotFound, "object not found", goerr.V("path", objectPath))
		}
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("path", objectPath))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object", goerr.V("path", objectPath))
	}
	return data, nil
}

func (g *GCS) Delete(ctx context.Context, objectPath string) error {
	if err := g.object(objectPath).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return goerr.Wrap(err, "failed to delete object", goerr.V("path", objectPath))
	}
	return nil
}

// Close releases the storage client
func (g *GCS) Close() error {
	return g.client.Close()
}

// Memory is an in-process BlobStore for tests and local runs
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ BlobStore = &Memory{}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Put(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectPath] = append([]byte(nil), data...)
	return objectPath, nil
}

func (m *Memory) Get(ctx context.Context, objectPath string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[objectPath]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "object not found", goerr.V("path", objectPath))
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Delete(ctx context.Context, objectPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectPath)
	return nil
}
