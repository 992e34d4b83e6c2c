package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage stores generated and fallback email images.
type Storage interface {
	// Put uploads data from a reader.
	// Options can customize key, prefix and content type.
	Put(ctx context.Context, r io.Reader, opts ...Option) (*FileInfo, error)

	// Get retrieves a file. The caller must close the returned object.
	Get(ctx context.Context, key string) (*Object, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, key string) error
}

// Backend names accepted by Config.Backend.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config holds image storage configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Backend         string `env:"STORAGE_BACKEND" envDefault:"local"`
	LocalDir        string `env:"STORAGE_LOCAL_DIR" envDefault:"./data/images"`
	Bucket          string `env:"STORAGE_BUCKET"`
	AccessKey       string `env:"STORAGE_ACCESS_KEY"`
	SecretKey       string `env:"STORAGE_SECRET_KEY"`
	Endpoint        string `env:"STORAGE_ENDPOINT"`
	Region          string `env:"STORAGE_REGION" envDefault:"us-east-1"`
	PathStyle       bool   `env:"STORAGE_PATH_STYLE" envDefault:"false"`
	MaxDownloadSize int64  `env:"STORAGE_MAX_DOWNLOAD_SIZE" envDefault:"10485760"`
}

// FileInfo contains metadata about a stored file.
type FileInfo struct {
	// Key is the storage key (path) for the file.
	Key string `json:"key"`

	// ContentType is the detected MIME type.
	ContentType string `json:"content_type"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`
}

// Object is an open stored file.
type Object struct {
	io.ReadCloser
	FileInfo
}

// Default configuration values.
const (
	DefaultRegion          = "us-east-1"
	DefaultMaxDownloadSize = 10 << 20 // 10MB
)

// Open creates the storage backend selected by cfg.Backend.
func Open(cfg Config) (Storage, error) {
	switch cfg.Backend {
	case BackendS3:
		return New(cfg)
	case BackendLocal, "":
		return NewLocal(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, cfg.Backend)
	}
}

// applyDefaults fills in default values for empty config fields.
func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.MaxDownloadSize == 0 {
		c.MaxDownloadSize = DefaultMaxDownloadSize
	}
}

// validate checks that the S3 fields are set.
func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
