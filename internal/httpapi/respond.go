package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/outreach/pkg/draft"
	"github.com/dmitrymomot/outreach/pkg/logger"
)

const maxJSONBody = 1 << 20 // 1MB

// newValidator reports fields by their JSON names and knows the draft tones.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("tone", func(fl validator.FieldLevel) bool {
		return draft.ValidTone(fl.Field().String())
	})
	return v
}

// decode reads a JSON body into dst and validates it.
func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errBadRequest("Invalid request body", err)
	}

	if err := a.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errBadRequest("Invalid request body", err)
		}
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, validationMessage(fe))
		}
		return errValidation(details)
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "tone":
		return field + " must be one of: " + strings.Join(draft.Tones, ", ")
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as JSON. Server errors are logged with the cause.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toError(err)
	apiErr.RequestID = logger.RequestID(r.Context())

	if apiErr.Code >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", apiErr.Code),
			slog.Any("error", err),
		)
	}

	writeJSON(w, apiErr.Code, map[string]*Error{"error": apiErr})
}

// handlerFunc is an HTTP handler that returns its error for rendering.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (a *API) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			a.writeError(w, r, err)
		}
	}
}
