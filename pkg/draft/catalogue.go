package draft

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed templates/defaults.yaml
var defaultTemplates []byte

// DefaultContext fills the context placeholder when the caller gives none.
const DefaultContext = "None provided"

// Tones lists the accepted email tones in display order.
var Tones = []string{"professional", "friendly", "enthusiastic", "warm", "casual", "formal"}

// ValidTone reports whether tone is one of Tones.
func ValidTone(tone string) bool {
	return slices.Contains(Tones, tone)
}

// Request holds the placeholders of an email prompt.
type Request struct {
	Template      string `json:"template"`
	RecipientName string `json:"recipient_name"`
	Topic         string `json:"topic"`
	Context       string `json:"context"`
	Tone          string `json:"tone"`
	Goal          string `json:"goal"`
}

// TemplateInfo describes a catalogue entry for listings.
type TemplateInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Catalogue is a named set of prompt templates.
type Catalogue struct {
	templates map[string]*template.Template
}

// DefaultCatalogue returns the built-in templates: follow_up, reminder and introduction.
func DefaultCatalogue() *Catalogue {
	c, err := LoadCatalogue(bytes.NewReader(defaultTemplates))
	if err != nil {
		panic(err) // embedded file is fixed
	}
	return c
}

// LoadCatalogue parses a YAML mapping of template name to prompt text.
func LoadCatalogue(r io.Reader) (*Catalogue, error) {
	c := &Catalogue{templates: make(map[string]*template.Template)}
	if err := c.Merge(r); err != nil {
		return nil, err
	}
	return c, nil
}

// Merge adds the templates in r, replacing entries with the same name.
func (c *Catalogue) Merge(r io.Reader) error {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogue, err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: no templates", ErrInvalidCatalogue)
	}

	parsed := make(map[string]*template.Template, len(raw))
	for name, text := range raw {
		t, err := template.New(name).Option("missingkey=error").Parse(strings.TrimSpace(text))
		if err != nil {
			return fmt.Errorf("%w: template %q: %w", ErrInvalidCatalogue, name, err)
		}
		parsed[name] = t
	}

	maps.Copy(c.templates, parsed)
	return nil
}

// Names returns the template names in sorted order.
func (c *Catalogue) Names() []string {
	return slices.Sorted(maps.Keys(c.templates))
}

// Templates lists the catalogue with display names.
func (c *Catalogue) Templates() []TemplateInfo {
	names := c.Names()
	out := make([]TemplateInfo, len(names))
	for i, name := range names {
		out[i] = TemplateInfo{Name: name, DisplayName: c.DisplayName(name)}
	}
	return out
}

// DisplayName turns a template name into a title: follow_up becomes "Follow Up".
func (c *Catalogue) DisplayName(name string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// Prompt renders the template named by req.Template.
// An empty context is replaced by DefaultContext.
func (c *Catalogue) Prompt(req Request) (string, error) {
	t, ok := c.templates[req.Template]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, req.Template)
	}
	if req.Tone != "" && !ValidTone(req.Tone) {
		return "", fmt.Errorf("%w: %q", ErrUnknownTone, req.Tone)
	}
	if strings.TrimSpace(req.Context) == "" {
		req.Context = DefaultContext
	}

	var buf strings.Builder
	if err := t.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("draft: render %q: %w", req.Template, err)
	}
	return buf.String(), nil
}
