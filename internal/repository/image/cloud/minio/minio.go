package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"image-watermarker/internal/config"
	"image-watermarker/internal/repository/image"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// objectClient is the subset of *minio.Client the mirror needs.
type objectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// FileRepository mirrors watermarked outputs into an object storage bucket.
type FileRepository struct {
	client  objectClient
	bucket  string
	prefix  string
	retries retry.Strategy
	logger  *zlog.Zerolog
}

func NewMinIORepository(cfg *config.Config, retries retry.Strategy, logger *zlog.Zerolog) (*FileRepository, error) {
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return newFileRepository(client, cfg.Storage.Bucket, cfg.Storage.Prefix, retries, logger), nil
}

func newFileRepository(client objectClient, bucket, prefix string, retries retry.Strategy, logger *zlog.Zerolog) *FileRepository {
	return &FileRepository{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		retries: retries,
		logger:  logger,
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (r *FileRepository) EnsureBucket(ctx context.Context) error {
	if r.bucket == "" {
		return fmt.Errorf("%w: bucket name is empty", image.ErrStorageValidation)
	}

	return retry.Do(func() error {
		exists, err := r.client.BucketExists(ctx, r.bucket)
		if err != nil {
			return fmt.Errorf("%w: failed to check bucket: %v", image.ErrStorageError, err)
		}
		if exists {
			return nil
		}

		if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: failed to create bucket %s: %v", image.ErrStorageError, r.bucket, err)
		}
		r.logger.Info().Str("bucket", r.bucket).Msg("Created bucket")
		return nil
	}, r.retries)
}

// Save uploads data under prefix+name and returns the object key.
func (r *FileRepository) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty object name", image.ErrInvalidName)
	}

	key := r.objectKey(name)

	err := retry.Do(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := r.client.PutObject(ctx, r.bucket, key, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentType})
		return err
	}, r.retries)
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload %s: %v", image.ErrStorageError, key, err)
	}

	r.logger.Debug().
		Str("bucket", r.bucket).
		Str("key", key).
		Int("size", len(data)).
		Msg("Mirrored output")

	return key, nil
}

func (r *FileRepository) objectKey(name string) string {
	return path.Join(r.prefix, path.Base(name))
}
