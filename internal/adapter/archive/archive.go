// Package archive uploads written observation CSVs to an S3-compatible bucket.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/couchcryptid/amedas-etl/internal/config"
	"github.com/couchcryptid/amedas-etl/internal/domain"
	"github.com/couchcryptid/amedas-etl/internal/observability"
)

type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucket, object, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Uploader copies the CSV of a finished run into the archive bucket.
// It implements pipeline.Loader.
type Uploader struct {
	store   objectStore
	bucket  string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewUploader connects to the configured endpoint.
func NewUploader(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Uploader, error) {
	client, err := minio.New(cfg.ArchiveEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ArchiveAccessKey, cfg.ArchiveSecretKey, ""),
		Secure: cfg.ArchiveUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("archive client: %w", err)
	}
	return newUploader(client, cfg.ArchiveBucket, logger, metrics), nil
}

func newUploader(store objectStore, bucket string, logger *slog.Logger, metrics *observability.Metrics) *Uploader {
	return &Uploader{store: store, bucket: bucket, logger: logger, metrics: metrics}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	ok, err := u.store.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", u.bucket, err)
	}
	if ok {
		return nil
	}
	if err := u.store.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", u.bucket, err)
	}
	u.logger.Info("archive bucket created", "bucket", u.bucket)
	return nil
}

// ObjectKey places a run's file under its cadence and run ID.
func ObjectKey(run domain.RunStatus) string {
	return path.Join(run.Cadence, run.ID, filepath.Base(run.Output))
}

// Load uploads the file at run.Output. The table itself is not re-encoded.
func (u *Uploader) Load(ctx context.Context, run domain.RunStatus, _ *domain.Table) error {
	if run.Output == "" {
		return fmt.Errorf("%w: run %s has no output file", domain.ErrInvalidInput, run.ID)
	}
	key := ObjectKey(run)
	info, err := u.store.FPutObject(ctx, u.bucket, key, run.Output, minio.PutObjectOptions{
		ContentType: "text/csv",
		UserMetadata: map[string]string{
			"run-id":  run.ID,
			"cadence": run.Cadence,
		},
	})
	if err != nil {
		u.metrics.ArchiveUploads.WithLabelValues("error").Inc()
		return fmt.Errorf("upload %s to %s/%s: %w", run.Output, u.bucket, key, err)
	}
	u.metrics.ArchiveUploads.WithLabelValues("success").Inc()
	u.logger.Info("csv archived", "run_id", run.ID, "bucket", u.bucket, "key", key, "size", info.Size)
	return nil
}
