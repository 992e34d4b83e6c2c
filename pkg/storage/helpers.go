package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PutBytes uploads byte data to storage.
// The MIME type is detected from content unless WithContentType is given.
func PutBytes(ctx context.Context, s Storage, data []byte, opts ...Option) (*FileInfo, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return s.Put(ctx, bytes.NewReader(data), opts...)
}

// ReadAll loads a whole stored file into memory.
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, *FileInfo, error) {
	obj, err := s.Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: read %s: %w", key, err)
	}

	info := obj.FileInfo
	info.Size = int64(len(data))
	return data, &info, nil
}

// downloadClient is shared by PutFromURL calls.
var downloadClient = &http.Client{Timeout: 30 * time.Second}

// PutFromURL downloads a file from a URL and uploads it to storage.
// maxSize limits the download size (0 uses DefaultMaxDownloadSize).
// Returns ErrInvalidURL for malformed URLs.
// Returns ErrDownloadTooLarge if the file exceeds maxSize.
// Returns ErrDownloadFailed for network or HTTP errors.
func PutFromURL(ctx context.Context, s Storage, sourceURL string, maxSize int64, opts ...Option) (*FileInfo, error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, ErrInvalidURL
	}

	if maxSize <= 0 {
		maxSize = DefaultMaxDownloadSize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	resp, err := downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}
	if resp.ContentLength > maxSize {
		return nil, ErrDownloadTooLarge
	}

	// Limit reader to prevent downloading too much.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if int64(len(data)) > maxSize {
		return nil, ErrDownloadTooLarge
	}

	return PutBytes(ctx, s, data, opts...)
}

// upload is a Put request after content detection and key resolution.
type upload struct {
	data []byte
	info FileInfo
}

// prepareUpload buffers r, detects its type and resolves the key.
func prepareUpload(r io.Reader, maxSize int64, opts []Option) (*upload, error) {
	o := newPutOptions(opts)

	src := r
	if maxSize > 0 {
		src = io.LimitReader(r, maxSize+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, ErrFileTooLarge
	}

	contentType := o.contentType
	if contentType == "" {
		contentType = DetectMIME(data)
	}
	if o.imageOnly && !IsImage(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, contentType)
	}

	key := o.key
	if key == "" {
		key = buildKey(o.prefix, contentType)
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	return &upload{
		data: data,
		info: FileInfo{
			Key:         key,
			ContentType: contentType,
			Size:        int64(len(data)),
		},
	}, nil
}

// buildKey constructs a storage key from prefix and content type.
// Format: {prefix}/{uuid}.{ext}
func buildKey(prefix, contentType string) string {
	var parts []string
	for seg := range strings.SplitSeq(prefix, "/") {
		if seg = sanitizePathSegment(seg); seg != "" {
			parts = append(parts, seg)
		}
	}
	parts = append(parts, uuid.NewString()+ExtFromMIME(contentType))
	return strings.Join(parts, "/")
}

// validateKey rejects keys that could escape the storage root.
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if path.Clean(key) != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for seg := range strings.SplitSeq(key, "/") {
		if seg == ".." || seg == "." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// pathSegmentRegex matches characters that are not safe for path segments.
var pathSegmentRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizePathSegment removes potentially dangerous characters from a path segment.
func sanitizePathSegment(segment string) string {
	segment = strings.Trim(segment, " /\\")
	segment = strings.ReplaceAll(segment, "..", "")
	return pathSegmentRegex.ReplaceAllString(segment, "_")
}
