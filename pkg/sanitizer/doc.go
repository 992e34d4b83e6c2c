// Package sanitizer cleans generated text before it reaches an email.
//
// Drafts come from a text-generation model and the free-form context a
// user typed, so the rendered HTML body is passed through a bluemonday
// allow-list policy before it is sent:
//
//	body := sanitizer.SanitizeHTML(rendered)
//
// StripHTML turns markup into plain text, used for subjects and image
// descriptions.
package sanitizer
