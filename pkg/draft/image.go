package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/outreach/pkg/storage"
)

const imagePrefix = "generated"

// Image is a stored email image.
type Image struct {
	Key string `json:"key"`
	// FallbackDescription is set when the image is the configured fallback
	// rather than a generated one.
	FallbackDescription string `json:"fallback_description,omitempty"`
}

// ImageGenerator renders an image from a text description with a hosted
// inference model and stores it.
type ImageGenerator struct {
	client       *http.Client
	store        storage.Storage
	logger       *slog.Logger
	endpoint     string
	token        string
	fallbackURL  string
	fallbackDesc string
	maxSize      int64
}

// ImageOption configures an ImageGenerator.
type ImageOption func(*ImageGenerator)

// WithHTTPClient sets the HTTP client used for inference requests.
func WithHTTPClient(c *http.Client) ImageOption {
	return func(g *ImageGenerator) {
		if c != nil {
			g.client = c
		}
	}
}

// WithImageLogger sets the logger.
func WithImageLogger(l *slog.Logger) ImageOption {
	return func(g *ImageGenerator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithMaxImageSize bounds generated and downloaded images. Default: 10MB.
func WithMaxImageSize(n int64) ImageOption {
	return func(g *ImageGenerator) {
		if n > 0 {
			g.maxSize = n
		}
	}
}

// NewImageGenerator creates an image generator that stores results in store.
func NewImageGenerator(cfg Config, store storage.Storage, opts ...ImageOption) *ImageGenerator {
	g := &ImageGenerator{
		client:       &http.Client{Timeout: cfg.ImageTimeout},
		store:        store,
		logger:       slog.New(slog.DiscardHandler),
		endpoint:     cfg.ImageModelURL,
		token:        cfg.HuggingFaceToken,
		fallbackURL:  cfg.FallbackImageURL,
		fallbackDesc: cfg.FallbackImageDescription,
		maxSize:      storage.DefaultMaxDownloadSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders description and stores the PNG.
// When generation fails the fallback image is downloaded into storage
// instead and its description is returned with it. ErrImageUnavailable
// means both failed.
func (g *ImageGenerator) Generate(ctx context.Context, description string) (Image, error) {
	info, genErr := g.generate(ctx, description)
	if genErr == nil {
		return Image{Key: info.Key}, nil
	}

	g.logger.WarnContext(ctx, "image generation failed, using fallback", slog.Any("error", genErr))

	if g.fallbackURL == "" {
		return Image{}, errors.Join(ErrImageUnavailable, genErr)
	}

	info, err := storage.PutFromURL(ctx, g.store, g.fallbackURL, g.maxSize,
		storage.WithPrefix(imagePrefix),
		storage.WithImageOnly(),
	)
	if err != nil {
		return Image{}, errors.Join(ErrImageUnavailable, genErr, err)
	}

	return Image{Key: info.Key, FallbackDescription: g.fallbackDesc}, nil
}

func (g *ImageGenerator) generate(ctx context.Context, description string) (*storage.FileInfo, error) {
	if g.endpoint == "" || g.token == "" {
		return nil, ErrMissingAPIKey
	}

	payload, err := json.Marshal(map[string]string{"inputs": description})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("draft: image model returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, g.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > g.maxSize {
		return nil, storage.ErrDownloadTooLarge
	}

	return storage.PutBytes(ctx, g.store, data,
		storage.WithPrefix(imagePrefix),
		storage.WithImageOnly(),
	)
}
