package storage

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/your-org/wardrobe/internal/config"
	"github.com/your-org/wardrobe/internal/observability"
)

// MinIOStore keeps uploaded files in an S3-compatible bucket. Objects are
// buffered up to the configured size cap before the single PutObject call.
type MinIOStore struct {
	client       *minio.Client
	bucket       string
	maxSize      int64
	allowedTypes []string
}

func NewMinIOStore(cfg config.MinIOConfig, storageCfg config.StorageConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinIOStore{
		client:       client,
		bucket:       cfg.Bucket,
		maxSize:      storageCfg.MaxFileSize,
		allowedTypes: storageCfg.AllowedTypes,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

func (s *MinIOStore) Save(ctx context.Context, r io.Reader, filename, contentType string, declaredSize int64) (string, error) {
	if !typeAllowed(s.allowedTypes, contentType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if declaredSize > s.maxSize {
		return "", fmt.Errorf("%w: declared %d bytes, limit %d", ErrTooLarge, declaredSize, s.maxSize)
	}

	br := bufio.NewReaderSize(r, uploadChunkSize)
	if head, err := br.Peek(12); err == nil {
		if inferred := sniffImageType(head); inferred != "" &&
			!sameImageType(inferred, contentType) &&
			!typeAllowed(s.allowedTypes, inferred) {
			return "", fmt.Errorf("%w: content is %s, declared %s", ErrUnsupportedType, inferred, contentType)
		}
	}

	var data bytes.Buffer
	buf := make([]byte, uploadChunkSize)
	for {
		n, readErr := br.Read(buf)
		if n > 0 {
			if int64(data.Len())+int64(n) > s.maxSize {
				return "", fmt.Errorf("%w: limit %d bytes", ErrTooLarge, s.maxSize)
			}
			data.Write(buf[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("read upload: %w", readErr)
		}
	}

	name := uniqueName(filename, contentType)
	size := int64(data.Len())
	_, err := s.client.PutObject(ctx, s.bucket, name, &data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", name, err)
	}

	observability.ImagesUploaded.Inc()
	observability.UploadBytes.Add(float64(size))
	slog.Info("object stored", "name", name, "bytes", size)
	return name, nil
}

func (s *MinIOStore) Delete(ctx context.Context, name string) bool {
	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err != nil {
		return false
	}
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		slog.Warn("delete object", "name", name, "error", err)
		return false
	}
	return true
}

// LocalPath downloads the object to a temporary file so subprocess-based
// recognizers can read it; cleanup removes the copy.
func (s *MinIOStore) LocalPath(ctx context.Context, name string) (string, func(), error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return "", nil, fmt.Errorf("get object %s: %w", name, err)
	}
	defer obj.Close()

	tmp, err := os.CreateTemp("", "wardrobe-*"+filepath.Ext(name))
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, obj); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("download object %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	path := tmp.Name()
	return path, func() { os.Remove(path) }, nil
}

// Ping checks MinIO connectivity.
func (s *MinIOStore) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}
