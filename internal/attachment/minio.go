// Package attachment hands out presigned upload URLs for case evidence.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"denuncia/backend/internal/config"
	"denuncia/backend/internal/policy"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrDisabled is returned when no object store is configured.
var ErrDisabled = errors.New("evidence uploads are not configured")

var allowedExt = map[string]bool{
	".pdf": true, ".png": true, ".jpg": true, ".jpeg": true,
	".txt": true, ".doc": true, ".docx": true, ".mp3": true, ".mp4": true,
}

// ObjectStore is the subset of the MinIO client used for evidence.
type ObjectStore interface {
	PresignedPutObject(ctx context.Context, bucket, object string, expiry time.Duration) (string, error)
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string) error
}

type minioStore struct {
	client *minio.Client
}

// NewMinioStore connects to an S3-compatible endpoint.
func NewMinioStore(endpoint, accessKey, secretKey string, useSSL bool) (ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &minioStore{client: client}, nil
}

func (s *minioStore) PresignedPutObject(ctx context.Context, bucket, object string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, bucket, object, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return u.String(), nil
}

func (s *minioStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return s.client.BucketExists(ctx, bucket)
}

func (s *minioStore) MakeBucket(ctx context.Context, bucket string) error {
	return s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}

// Upload is a presigned URL together with the object key to record on the case.
type Upload struct {
	Key       string    `json:"key"`
	URL       string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service issues evidence upload URLs. A nil store disables uploads.
type Service struct {
	store  ObjectStore
	bucket string
}

func NewService(store ObjectStore, bucket string) *Service {
	return &Service{store: store, bucket: bucket}
}

// Initialize creates the bucket when missing.
func (s *Service) Initialize(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	exists, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.store.MakeBucket(ctx, s.bucket)
	}
	return nil
}

// UploadURL returns a URL for uploading one file named fileName. The object
// key is random so that file names never leak between cases.
func (s *Service) UploadURL(ctx context.Context, fileName string) (*Upload, error) {
	if s.store == nil {
		return nil, ErrDisabled
	}
	ext := strings.ToLower(path.Ext(fileName))
	if !allowedExt[ext] {
		return nil, policy.Reject(policy.ReasonInvalidInput, fmt.Sprintf("file type %q not accepted", ext))
	}
	key := "evidence/" + uuid.New().String() + ext
	url, err := s.store.PresignedPutObject(ctx, s.bucket, key, config.UploadURLExpiry)
	if err != nil {
		return nil, err
	}
	return &Upload{Key: key, URL: url, ExpiresAt: time.Now().Add(config.UploadURLExpiry)}, nil
}

// ValidKey reports whether key looks like one issued by UploadURL.
func ValidKey(key string) bool {
	if !strings.HasPrefix(key, "evidence/") {
		return false
	}
	name := strings.TrimPrefix(key, "evidence/")
	ext := path.Ext(name)
	if !allowedExt[ext] {
		return false
	}
	_, err := uuid.Parse(strings.TrimSuffix(name, ext))
	return err == nil
}
