package draft

import "errors"

var (
	// ErrUnknownTemplate is returned for a template name missing from the catalogue.
	ErrUnknownTemplate = errors.New("draft: unknown template")

	// ErrUnknownTone is returned for a tone outside Tones.
	ErrUnknownTone = errors.New("draft: unknown tone")

	// ErrInvalidCatalogue is returned when a template file cannot be parsed.
	ErrInvalidCatalogue = errors.New("draft: invalid template catalogue")

	// ErrGenerateFailed wraps text generator failures.
	ErrGenerateFailed = errors.New("draft: text generation failed")

	// ErrEmptyResponse is returned when the generator answers with no text.
	ErrEmptyResponse = errors.New("draft: empty generator response")

	// ErrImageUnavailable is returned when neither the generated nor the
	// fallback image could be stored.
	ErrImageUnavailable = errors.New("draft: no image available")

	// ErrMissingAPIKey is returned when a generator is built without credentials.
	ErrMissingAPIKey = errors.New("draft: api key is required")
)
