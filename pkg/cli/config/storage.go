package config

import (
	"context"
	"log/slog"

	"github.com/briefwise/briefwise/pkg/service/storage"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for raw upload blob storage
type Storage struct {
	bucket string
	prefix string
}

// Flags returns CLI flags for storage configuration
func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-bucket",
			Category:    "Storage",
			Usage:       "Cloud Storage bucket for raw uploads (raw bytes are discarded when empty)",
			Sources:     cli.EnvVars("BRIEFWISE_STORAGE_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "storage-prefix",
			Category:    "Storage",
			Usage:       "Object path prefix inside the bucket",
			Sources:     cli.EnvVars("BRIEFWISE_STORAGE_PREFIX"),
			Destination: &x.prefix,
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", x.bucket),
		slog.String("prefix", x.prefix),
	)
}

// Configure creates the blob store. It returns a nil store and a no-op closer
// when no bucket is configured.
func (x *Storage) Configure(ctx context.Context) (storage.BlobStore, func(), error) {
	if x.bucket == "" {
		return nil, func() {}, nil
	}

	var opts []storage.GCSOption
	if x.prefix != "" {
		opts = append(opts, storage.WithPrefix(x.prefix))
	}

	store, err := storage.NewGCS(ctx, x.bucket, opts...)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure blob storage")
	}

	logging.Default().Info("Using Cloud Storage for raw uploads", "bucket", x.bucket)
	return store, func() {
		if err := store.Close(); err != nil {
			logging.Default().Warn("failed to close storage client", "error", err.Error())
		}
	}, nil
}
