package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage keeps files in a directory on disk.
// It is meant for development and single-node deployments.
type LocalStorage struct {
	root    string
	maxSize int64
}

// NewLocal creates a LocalStorage rooted at dir, creating it if needed.
func NewLocal(dir string) (*LocalStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: local directory is required", ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &LocalStorage{root: dir, maxSize: DefaultMaxDownloadSize}, nil
}

// Put writes data to a file under the root directory.
func (s *LocalStorage) Put(ctx context.Context, r io.Reader, opts ...Option) (*FileInfo, error) {
	up, err := prepareUpload(r, s.maxSize, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(up.info.Key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := os.WriteFile(path, up.data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	info := up.info
	return &info, nil
}

// Get opens a stored file. The content type is detected from its first bytes.
func (s *LocalStorage) Get(ctx context.Context, key string) (*Object, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("storage: open %s: %w", key, err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("storage: stat %s: %w", key, err)
	}

	head := make([]byte, mimeDetectionBytes)
	n, _ := io.ReadFull(f, head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("storage: seek %s: %w", key, err)
	}

	return &Object{
		ReadCloser: f,
		FileInfo: FileInfo{
			Key:         key,
			ContentType: DetectMIME(head[:n]),
			Size:        stat.Size(),
		},
	}, nil
}

// Delete removes a stored file.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Ensure LocalStorage implements Storage.
var _ Storage = (*LocalStorage)(nil)
