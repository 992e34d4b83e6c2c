package storage

// Option configures Put operations.
type Option func(*putOptions)

// putOptions holds configuration for Put operations.
type putOptions struct {
	key         string // Explicit key (replaces auto-generated)
	prefix      string // Path prefix (e.g., "generated/")
	contentType string // Override detected content type
	imageOnly   bool   // Reject content that is not an image
}

// WithKey sets an explicit storage key, replacing the auto-generated one.
// Use this to overwrite an existing file at a specific location.
func WithKey(key string) Option {
	return func(o *putOptions) {
		o.key = key
	}
}

// WithPrefix sets a path prefix for the uploaded file.
// Example: WithPrefix("generated") results in "generated/{uuid}.{ext}"
func WithPrefix(prefix string) Option {
	return func(o *putOptions) {
		o.prefix = prefix
	}
}

// WithContentType overrides the auto-detected content type.
// Use sparingly; auto-detection from magic bytes is preferred.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

// WithImageOnly rejects uploads whose detected type is not an image.
// Image APIs answer errors with JSON bodies; this keeps them out of storage.
func WithImageOnly() Option {
	return func(o *putOptions) {
		o.imageOnly = true
	}
}

func newPutOptions(opts []Option) *putOptions {
	o := &putOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
