package storage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/your-org/wardrobe/internal/config"
	"github.com/your-org/wardrobe/internal/observability"
)

// LocalStore keeps uploaded files on the local filesystem under one root
// directory.
type LocalStore struct {
	dir          string
	maxSize      int64
	allowedTypes []string
}

func NewLocalStore(cfg config.StorageConfig) *LocalStore {
	return &LocalStore{
		dir:          cfg.UploadDir,
		maxSize:      cfg.MaxFileSize,
		allowedTypes: cfg.AllowedTypes,
	}
}

func (s *LocalStore) Save(ctx context.Context, r io.Reader, filename, contentType string, declaredSize int64) (string, error) {
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

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uniqueName(filename, contentType)
	path := filepath.Join(s.dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	var total int64
	buf := make([]byte, uploadChunkSize)
	for {
		n, readErr := br.Read(buf)
		if n > 0 {
			total += int64(n)
			if total > s.maxSize {
				out.Close()
				os.Remove(path)
				return "", fmt.Errorf("%w: limit %d bytes", ErrTooLarge, s.maxSize)
			}
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				os.Remove(path)
				return "", fmt.Errorf("write file: %w", writeErr)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			os.Remove(path)
			return "", fmt.Errorf("read upload: %w", readErr)
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close file: %w", err)
	}

	observability.ImagesUploaded.Inc()
	observability.UploadBytes.Add(float64(total))
	slog.Info("file stored", "name", name, "bytes", total)
	return name, nil
}

func (s *LocalStore) Delete(ctx context.Context, name string) bool {
	path := filepath.Join(s.dir, filepath.Base(name))
	if _, err := os.Stat(path); err != nil {
		return false
	}
	if err := os.Remove(path); err != nil {
		slog.Warn("delete file", "name", name, "error", err)
		return false
	}
	return true
}

func (s *LocalStore) LocalPath(ctx context.Context, name string) (string, func(), error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	if _, err := os.Stat(path); err != nil {
		return "", nil, fmt.Errorf("stat %s: %w", name, err)
	}
	return path, nil, nil
}
