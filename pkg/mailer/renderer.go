package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dmitrymomot/outreach/pkg/sanitizer"
)

//go:embed layouts/*.html
var layoutsFS embed.FS

// defaultLayout is the layout bundled with the package.
const defaultLayout = "layouts/email.html"

// Renderer turns a drafted body into the text and HTML parts of an email.
// The body is treated as markdown with hard line breaks, so a plain
// paragraph written by the model keeps its line structure in HTML.
type Renderer struct {
	md             goldmark.Markdown
	layout         *template.Template
	unsubscribeURL string
}

// Signature is the sender block appended to every email.
type Signature struct {
	Name    string
	Title   string
	Contact string
}

// lines returns the non-empty signature lines in order.
func (s Signature) lines() []string {
	out := make([]string, 0, 3)
	for _, l := range []string{s.Name, s.Title, s.Contact} {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	// Layout is an optional filesystem holding a replacement layout.
	Layout fs.FS
	// LayoutPath is the layout file inside Layout. Default: "layouts/email.html"
	LayoutPath string
	// UnsubscribeURL adds an unsubscribe link to the HTML footer when set.
	UnsubscribeURL string
}

// NewRenderer creates a renderer with the bundled layout.
func NewRenderer(unsubscribeURL string) (*Renderer, error) {
	return NewRendererWithConfig(RendererConfig{UnsubscribeURL: unsubscribeURL})
}

// NewRendererWithConfig creates a renderer with custom config.
func NewRendererWithConfig(cfg RendererConfig) (*Renderer, error) {
	if cfg.Layout == nil {
		cfg.Layout = layoutsFS
	}
	if cfg.LayoutPath == "" {
		cfg.LayoutPath = defaultLayout
	}

	content, err := fs.ReadFile(cfg.Layout, cfg.LayoutPath)
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %v", ErrRenderFailed, cfg.LayoutPath, err)
	}
	layout, err := template.New(cfg.LayoutPath).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse layout: %v", ErrRenderFailed, err)
	}

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		layout:         layout,
		unsubscribeURL: cfg.UnsubscribeURL,
	}, nil
}

// RenderResult contains the rendered HTML and plain text parts.
type RenderResult struct {
	HTML string
	Text string
}

// Render produces both parts of an email. imageCID, when set, places an
// inline image referencing that Content-ID under the body.
func (r *Renderer) Render(body string, sig Signature, imageCID string) (*RenderResult, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrNoContent
	}

	var md bytes.Buffer
	if err := r.md.Convert([]byte(body), &md); err != nil {
		return nil, fmt.Errorf("%w: failed to convert markdown: %v", ErrRenderFailed, err)
	}

	data := map[string]any{
		"Body":           template.HTML(sanitizer.SanitizeHTML(md.String())),
		"Signature":      sig.lines(),
		"UnsubscribeURL": r.unsubscribeURL,
	}
	if imageCID != "" {
		// cid: is not on html/template's URL allow-list.
		data["Image"] = template.URL("cid:" + imageCID)
	}

	var out bytes.Buffer
	if err := r.layout.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("%w: failed to execute layout: %v", ErrRenderFailed, err)
	}

	return &RenderResult{
		HTML: out.String(),
		Text: plainText(body, sig),
	}, nil
}

// plainText is the body followed by the signature block.
func plainText(body string, sig Signature) string {
	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\nBest regards,")
	for _, l := range sig.lines() {
		b.WriteString("\n")
		b.WriteString(l)
	}
	return b.String()
}
