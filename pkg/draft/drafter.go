package draft

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/outreach/pkg/cache"
)

const (
	// NoSubject is used when a generated email has no separate subject line.
	NoSubject = "No Subject"

	// FallbackImageDescription is used when the image description cannot be generated.
	FallbackImageDescription = "Business meeting, handshake, office."
)

// Email is a generated draft.
type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Drafter writes email drafts and image descriptions with a text generator.
type Drafter struct {
	gen       Generator
	catalogue *Catalogue
	loader    *cache.Loader[Email]
	logger    *slog.Logger
	ttl       time.Duration
}

// Option configures a Drafter.
type Option func(*Drafter)

// WithCatalogue replaces the default prompt catalogue.
func WithCatalogue(c *Catalogue) Option {
	return func(d *Drafter) {
		if c != nil {
			d.catalogue = c
		}
	}
}

// WithCache caches drafts by prompt. Identical prompts generated at the same
// time share one generator call.
func WithCache(c cache.Cache[Email], ttl time.Duration) Option {
	return func(d *Drafter) {
		if c != nil {
			d.loader = cache.NewLoader(c)
			d.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Drafter) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDrafter creates a Drafter backed by gen.
func NewDrafter(gen Generator, opts ...Option) *Drafter {
	d := &Drafter{
		gen:       gen,
		catalogue: DefaultCatalogue(),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Catalogue returns the prompt catalogue in use.
func (d *Drafter) Catalogue() *Catalogue {
	return d.catalogue
}

// Email renders the prompt for req and generates a draft.
func (d *Drafter) Email(ctx context.Context, req Request) (Email, error) {
	prompt, err := d.catalogue.Prompt(req)
	if err != nil {
		return Email{}, err
	}

	generate := func(ctx context.Context) (Email, time.Duration, error) {
		text, err := d.gen.Generate(ctx, prompt)
		if err != nil {
			return Email{}, 0, err
		}
		return SplitEmail(text), d.ttl, nil
	}

	if d.loader == nil {
		email, _, err := generate(ctx)
		return email, err
	}
	return d.loader.GetOrSet(ctx, cache.Key("draft", "email", prompt), generate)
}

// ImageDescription asks the generator for a photorealistic image description.
// It never fails: generator errors yield FallbackImageDescription.
func (d *Drafter) ImageDescription(ctx context.Context, topic, details, goal string) string {
	prompt := fmt.Sprintf("Given the following email topic: '%s'.\n"+
		"Context: '%s'.\n"+
		"Goal: '%s'.\n"+
		"Suggest a concise, vivid, photorealistic image description to visually represent this email, ready for image-generation AI. "+
		"Do NOT use placeholder text. Write as a full descriptive sentence.",
		topic, details, goal)

	text, err := d.gen.Generate(ctx, prompt)
	if err != nil {
		d.logger.WarnContext(ctx, "image description fallback", slog.Any("error", err))
		return FallbackImageDescription
	}

	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if text == "" {
		return FallbackImageDescription
	}
	return text
}

// SplitEmail separates the subject on the first line from the body.
// A leading "Subject:" label is removed. Text without a newline becomes the
// body of an email with subject NoSubject.
func SplitEmail(text string) Email {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))

	subject, body, ok := strings.Cut(text, "\n")
	if !ok {
		return Email{Subject: NoSubject, Body: text}
	}

	subject = strings.Trim(subject, "*# ")
	if len(subject) >= len("subject:") && strings.EqualFold(subject[:len("subject:")], "subject:") {
		subject = strings.TrimSpace(subject[len("subject:"):])
	}
	subject = strings.Trim(subject, "*# ")
	if subject == "" {
		subject = NoSubject
	}

	return Email{Subject: subject, Body: strings.TrimSpace(body)}
}
