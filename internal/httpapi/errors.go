package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/outreach/pkg/campaign"
	"github.com/dmitrymomot/outreach/pkg/draft"
	"github.com/dmitrymomot/outreach/pkg/history"
	"github.com/dmitrymomot/outreach/pkg/recipients"
)

// Error is an API error with everything needed to render it.
type Error struct {
	// Err is the underlying error, logged but never sent to clients.
	Err error `json:"-"`

	Message   string   `json:"message"`
	ErrorCode string   `json:"code"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`

	Code int `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code int, errorCode, message string, err error) *Error {
	return &Error{Code: code, ErrorCode: errorCode, Message: message, Err: err}
}

func errBadRequest(message string, err error) *Error {
	return newError(http.StatusBadRequest, "bad_request", message, err)
}

func errNotFound(message string) *Error {
	return newError(http.StatusNotFound, "not_found", message, nil)
}

func errValidation(details []string) *Error {
	e := newError(http.StatusUnprocessableEntity, "validation_failed", "Validation failed", nil)
	e.Details = details
	return e
}

func errUpstream(message string, err error) *Error {
	return newError(http.StatusBadGateway, "upstream_failed", message, err)
}

// toError maps domain errors onto API errors. Unknown errors become 500.
func toError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, campaign.ErrInvalidCount),
		errors.Is(err, campaign.ErrInvalidWindow),
		errors.Is(err, campaign.ErrInvalidCampaign):
		return newError(http.StatusBadRequest, "invalid_batch", err.Error(), err)
	case errors.Is(err, campaign.ErrDuplicateUnit):
		return newError(http.StatusConflict, "duplicate_unit", err.Error(), err)
	case errors.Is(err, draft.ErrUnknownTemplate),
		errors.Is(err, draft.ErrUnknownTone):
		return newError(http.StatusBadRequest, "invalid_template", err.Error(), err)
	case errors.Is(err, draft.ErrImageUnavailable):
		return errUpstream("Failed to generate or download a fallback image. Please try again.", err)
	case errors.Is(err, recipients.ErrMissingColumns):
		return newError(http.StatusUnprocessableEntity, "missing_columns", "Uploaded file must contain columns: Names, Emails", err)
	case errors.Is(err, recipients.ErrUnsupportedFormat):
		return newError(http.StatusUnsupportedMediaType, "unsupported_format", "Upload a CSV or Excel (.xlsx) file", err)
	case errors.Is(err, recipients.ErrEmptyFile),
		errors.Is(err, recipients.ErrInvalidFile):
		return errBadRequest("Could not read the uploaded file", err)
	case errors.Is(err, history.ErrCampaignRequired):
		return errBadRequest(err.Error(), err)
	default:
		return newError(http.StatusInternalServerError, "internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}
