// Package storage is the S3-compatible object store behind document uploads,
// invoice PDFs and GDPR exports.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/config"
	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("storage")

// Store puts objects in one bucket and hands out presigned download links.
type Store struct {
	client *minio.Client
	bucket string
	urlTTL time.Duration
	logger *zap.Logger
}

// New connects to the configured endpoint. No network call is made.
func New(cfg config.Storage, logger *zap.Logger) (*Store, error) {
	if !cfg.Enabled() {
		return nil, &domain.ConfigError{Key: "STORAGE_ENDPOINT", Message: "object storage is not configured"}
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, &domain.ConfigError{Key: "STORAGE_ENDPOINT", Message: err.Error()}
	}
	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Store{client: client, bucket: cfg.Bucket, urlTTL: ttl, logger: logger}, nil
}

// EnsureBucket creates the bucket when missing.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return &domain.NetworkError{Message: "object storage unreachable", Err: err}
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return &domain.NetworkError{Message: "create bucket " + s.bucket, Err: err}
	}
	s.logger.Info("storage: bucket created", zap.String("bucket", s.bucket))
	return nil
}

// Put uploads r under key. size may be -1 when unknown.
func (s *Store) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
	ctx, span := tracer.Start(ctx, "Storage.Put")
	defer span.End()
	span.SetAttributes(attribute.String("storage.key", key))

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.logger.Error("storage: put failed", zap.String("key", key), zap.Error(err))
		return &domain.NetworkError{Message: "failed to store object", Err: err}
	}
	s.logger.Debug("storage: put OK", zap.String("key", key), zap.Int64("size", info.Size))
	return nil
}

// PresignedURL returns a time-limited GET link for key.
func (s *Store) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.urlTTL, nil)
	if err != nil {
		return "", &domain.NetworkError{Message: "failed to presign object", Err: err}
	}
	return u.String(), nil
}

// ObjectKey builds a unique key under prefix keeping the base name of filename.
func ObjectKey(prefix, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	return fmt.Sprintf("%s/%s-%s", strings.Trim(prefix, "/"), uuid.NewString(), name)
}
