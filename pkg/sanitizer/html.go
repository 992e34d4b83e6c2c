package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	emailPolicy  *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// StrictPolicy strips ALL HTML, returns plain text
		strictPolicy = bluemonday.StrictPolicy()

		// emailPolicy keeps what the markdown renderer emits for a drafted email body.
		emailPolicy = bluemonday.NewPolicy()
		emailPolicy.AllowStandardURLs()
		emailPolicy.AllowElements(
			"p", "br", "hr",
			"h1", "h2", "h3", "h4",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		emailPolicy.AllowAttrs("href").OnElements("a")
		emailPolicy.RequireNoFollowOnLinks(true)
		emailPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	})
}

// SanitizeHTML keeps the formatting a rendered email body needs
// (paragraphs, line breaks, headings, emphasis, lists, quotes and links)
// and strips everything else, including scripts, event handlers,
// styles and javascript: URLs.
//
// Generated text is untrusted: the model may echo markup from the
// user-supplied context straight into the body.
func SanitizeHTML(s string) string {
	initPolicies()
	return emailPolicy.Sanitize(s)
}

// StripHTML removes all tags and returns plain text with entities decoded.
func StripHTML(s string) string {
	initPolicies()
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// SanitizeHTMLCustom applies a custom bluemonday policy.
// Returns input unchanged if policy is nil.
func SanitizeHTMLCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
