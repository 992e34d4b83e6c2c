package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/outreach/pkg/draft"
	"github.com/dmitrymomot/outreach/pkg/recipients"
)

func (a *API) listTemplates(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]any{"templates": a.deps.Drafter.Catalogue().Templates()})
	return nil
}

func (a *API) listTones(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]any{"tones": draft.Tones})
	return nil
}

// importRecipients reads a multipart "file" field holding CSV or XLSX.
func (a *API) importRecipients(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes)
	if err := r.ParseMultipartForm(a.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return newError(http.StatusRequestEntityTooLarge, "file_too_large", "Uploaded file is too large", err)
		}
		return errBadRequest("Expected a multipart form with a file field", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return errBadRequest("file is required", err)
	}
	defer file.Close()

	list, err := recipients.Parse(header.Filename, file)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, map[string]any{"recipients": list})
	return nil
}

type draftRecipient struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
}

type draftsRequest struct {
	Template string `json:"template" validate:"required"`
	Topic    string `json:"topic" validate:"required,max=500"`
	Context  string `json:"context" validate:"max=2000"`
	Tone     string `json:"tone" validate:"required,tone"`
	Goal     string `json:"goal" validate:"required,max=500"`
	// ImageDescription is generated from topic, context and goal when empty.
	ImageDescription string           `json:"image_description" validate:"max=1000"`
	Recipients       []draftRecipient `json:"recipients" validate:"required,min=1,max=100,dive"`
}

type draftPreview struct {
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

type draftImage struct {
	Key                 string `json:"key"`
	Description         string `json:"description"`
	FallbackDescription string `json:"fallback_description,omitempty"`
}

type draftsResponse struct {
	Image  draftImage     `json:"image"`
	Drafts []draftPreview `json:"drafts"`
}

// createDrafts generates one preview per recipient and a shared image.
// Nothing is scheduled; the client edits the previews and posts them to
// /api/campaigns.
func (a *API) createDrafts(w http.ResponseWriter, r *http.Request) error {
	var req draftsRequest
	if err := a.decode(w, r, &req); err != nil {
		return err
	}
	ctx := r.Context()

	description := req.ImageDescription
	if description == "" {
		description = a.deps.Drafter.ImageDescription(ctx, req.Topic, req.Context, req.Goal)
	}

	img, err := a.deps.Images.Generate(ctx, description)
	if err != nil {
		return err
	}

	resp := draftsResponse{
		Image: draftImage{
			Key:                 img.Key,
			Description:         description,
			FallbackDescription: img.FallbackDescription,
		},
		Drafts: make([]draftPreview, 0, len(req.Recipients)),
	}

	for _, rcpt := range req.Recipients {
		email, err := a.deps.Drafter.Email(ctx, draft.Request{
			Template:      req.Template,
			RecipientName: rcpt.Name,
			Topic:         req.Topic,
			Context:       req.Context,
			Tone:          req.Tone,
			Goal:          req.Goal,
		})
		if err != nil {
			if errors.Is(err, draft.ErrUnknownTemplate) || errors.Is(err, draft.ErrUnknownTone) {
				return err
			}
			a.logger.WarnContext(ctx, "draft generation failed",
				slog.String("recipient", rcpt.Email),
				slog.Any("error", err),
			)
			return errUpstream("Draft generation failed for "+rcpt.Email, err)
		}

		resp.Drafts = append(resp.Drafts, draftPreview{
			RecipientName:  rcpt.Name,
			RecipientEmail: rcpt.Email,
			Subject:        email.Subject,
			Body:           email.Body,
		})
	}

	writeJSON(w, http.StatusOK, resp)
	return nil
}
