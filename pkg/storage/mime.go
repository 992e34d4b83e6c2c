package storage

import (
	"net/http"
	"strings"
)

// MIME type constants.
const (
	MIMEOctetStream    = "application/octet-stream"
	mimeDetectionBytes = 512 // http.DetectContentType requires up to 512 bytes
)

// imageExtensions maps image MIME types to preferred file extensions.
var imageExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
	"image/x-icon":  ".ico",
	"image/avif":    ".avif",
}

// DetectMIME detects the MIME type of data from its magic bytes.
// Returns "application/octet-stream" for empty input.
func DetectMIME(data []byte) string {
	if len(data) == 0 {
		return MIMEOctetStream
	}
	if len(data) > mimeDetectionBytes {
		data = data[:mimeDetectionBytes]
	}
	return normalizeMIME(http.DetectContentType(data))
}

// ExtFromMIME returns the preferred file extension for a MIME type,
// or ".bin" when the type is unknown.
func ExtFromMIME(mimeType string) string {
	if ext, ok := imageExtensions[normalizeMIME(mimeType)]; ok {
		return ext
	}
	return ".bin"
}

// IsImage reports whether the MIME type is an image type.
func IsImage(mimeType string) bool {
	_, ok := imageExtensions[normalizeMIME(mimeType)]
	return ok
}

// normalizeMIME extracts the base MIME type, removing parameters like charset.
// Returns the lowercase MIME type.
func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}
