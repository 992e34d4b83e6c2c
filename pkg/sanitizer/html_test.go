package sanitizer_test

import (
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/outreach/pkg/sanitizer"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text", input: "Meeting next week", expected: "Meeting next week"},
		{name: "tags removed", input: "<p>Hello <strong>Anna</strong></p>", expected: "Hello Anna"},
		{name: "script removed", input: "Hi<script>alert(1)</script>", expected: "Hi"},
		{name: "entities decoded", input: "Q&amp;A session", expected: "Q&A session"},
		{name: "surrounding space trimmed", input: "  <b>Subject</b>  ", expected: "Subject"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.StripHTML(tt.input))
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "paragraph with line breaks",
			input:    "<p>Hi Anna,<br>\nthanks for the call.</p>",
			expected: "<p>Hi Anna,<br>\nthanks for the call.</p>",
		},
		{
			name:     "emphasis and lists",
			input:    "<ul><li><strong>Pricing</strong></li><li><em>Timeline</em></li></ul>",
			expected: "<ul><li><strong>Pricing</strong></li><li><em>Timeline</em></li></ul>",
		},
		{
			name:     "headings",
			input:    "<h2>Agenda</h2>",
			expected: "<h2>Agenda</h2>",
		},
		{
			name:     "script stripped",
			input:    "<p>Hello</p><script>alert('xss')</script>",
			expected: "<p>Hello</p>",
		},
		{
			name:     "style attribute stripped",
			input:    `<p style="color:red">Hello</p>`,
			expected: "<p>Hello</p>",
		},
		{
			name:     "image stripped",
			input:    `<img src="https://tracker.example.com/pixel.gif">`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.SanitizeHTML(tt.input))
		})
	}
}

func TestSanitizeHTML_Links(t *testing.T) {
	t.Parallel()

	out := sanitizer.SanitizeHTML(`<a href="https://example.com/deck">deck</a>`)
	assert.Contains(t, out, `href="https://example.com/deck"`)
	assert.Contains(t, out, "nofollow")
	assert.Contains(t, out, `target="_blank"`)

	out = sanitizer.SanitizeHTML(`<a href="javascript:alert(1)">click</a>`)
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "click")
}

func TestSanitizeHTMLCustom(t *testing.T) {
	t.Parallel()

	t.Run("nil policy returns input", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "<b>x</b>", sanitizer.SanitizeHTMLCustom("<b>x</b>", nil))
	})

	t.Run("strict policy", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "x", sanitizer.SanitizeHTMLCustom("<b>x</b>", bluemonday.StrictPolicy()))
	})
}

func TestSanitizeHTML_XSSVectors(t *testing.T) {
	t.Parallel()

	vectors := []string{
		`<script>alert('XSS')</script>`,
		`<img src=x onerror=alert('XSS')>`,
		`<svg onload=alert('XSS')>`,
		`<body onload=alert('XSS')>`,
		`<iframe src="javascript:alert('XSS')"></iframe>`,
		`<a href="javascript:alert('XSS')">click</a>`,
		`<div onclick="alert('XSS')">click</div>`,
	}

	for _, v := range vectors {
		t.Run(v, func(t *testing.T) {
			t.Parallel()

			result := sanitizer.SanitizeHTML(v)
			assert.NotContains(t, result, "<script")
			assert.NotContains(t, result, "javascript:")
			assert.NotContains(t, result, "onerror=")
			assert.NotContains(t, result, "onload=")
			assert.NotContains(t, result, "onclick=")
		})
	}
}
