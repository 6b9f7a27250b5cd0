package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig holds the connection settings for the MinIO provider.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
	// Prefix is the object-name prefix for all uploads (defaults to "docs").
	Prefix string
}

// MinIO implements Provider on a MinIO (or S3-compatible) bucket.
type MinIO struct {
	client *minio.Client
	bucket string
	prefix string
	base   string // public URL base for stored objects
}

var _ Provider = (*MinIO)(nil)

// NewMinIO creates a MinIO provider and verifies the bucket is reachable.
func NewMinIO(ctx context.Context, cfg MinIOConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: create minio client: %w", err)
	}
	ok, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("blob: check bucket %s: %w", cfg.Bucket, err)
	}
	if !ok {
		return nil, fmt.Errorf("blob: bucket %s does not exist", cfg.Bucket)
	}
	scheme := "http"
	if cfg.Secure {
		scheme = "https"
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "docs"
	}
	return &MinIO{
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
		base:   fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket),
	}, nil
}

// Upload stores data under a unique object name and returns its reference.
func (m *MinIO) Upload(ctx context.Context, data []byte, filename, contentType string) (Ref, error) {
	object := m.objectName(filename)
	_, err := m.client.PutObject(ctx, m.bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return Ref{}, fmt.Errorf("blob: upload %s: %w", object, err)
	}
	return Ref{URL: m.base + "/" + object, ID: object}, nil
}

// Delete removes the object with the given storage id.
func (m *MinIO) Delete(ctx context.Context, id string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("blob: delete %s: %w", id, err)
	}
	return nil
}

// Fetch returns the raw bytes of the object with the given storage id.
func (m *MinIO) Fetch(ctx context.Context, id string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, id, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("blob: get %s: %w", id, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("blob: read %s: %w", id, err)
	}
	return data, nil
}

// objectName builds a collision-free object name keeping the original
// extension for content-type sniffing on the storage side.
func (m *MinIO) objectName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return m.prefix + "/" + uuid.NewString() + ext
}
