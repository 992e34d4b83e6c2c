package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/outreach/pkg/campaign"
	"github.com/dmitrymomot/outreach/pkg/storage"
)

// Inline image naming. The HTML body references the image as cid:embedded_image.
const (
	ImageContentID = "embedded_image"
	imageBaseName  = "generated_image"
)

// CampaignTag is the provider tag carrying the campaign id.
const CampaignTag = "campaign_id"

// Mailer composes outreach emails from campaign payloads and hands them to a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	images   storage.Storage
	logger   *slog.Logger
	config   Config
}

// New creates a new Mailer with the given sender and renderer.
func New(sender Sender, renderer *Renderer, cfg Config, opts ...Option) *Mailer {
	m := &Mailer{
		sender:   sender,
		renderer: renderer,
		config:   cfg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Compose builds the email for one payload.
// A payload image that cannot be loaded is logged and left out.
func (m *Mailer) Compose(ctx context.Context, campaignID string, p campaign.Payload) (*Email, error) {
	if strings.TrimSpace(p.Recipient) == "" {
		return nil, ErrNoRecipient
	}

	subject := strings.TrimSpace(p.Subject)
	if subject == "" {
		subject = m.config.FallbackSubject
	}
	if subject == "" {
		return nil, ErrNoSubject
	}

	var attachments []Attachment
	cid := ""
	if p.ImageKey != "" {
		img, err := m.loadImage(ctx, p.ImageKey)
		if err != nil {
			m.logger.WarnContext(ctx, "email image skipped",
				slog.String("campaign_id", campaignID),
				slog.String("image_key", p.ImageKey),
				slog.Any("error", err),
			)
		} else {
			cid = ImageContentID
			inline := *img
			inline.ContentID = ImageContentID
			attachments = append(attachments, inline, *img)
		}
	}

	result, err := m.renderer.Render(p.Body, Signature{
		Name:    p.SenderName,
		Title:   p.SenderTitle,
		Contact: p.SenderContact,
	}, cid)
	if err != nil {
		return nil, err
	}

	email := &Email{
		To:          []string{p.Recipient},
		Subject:     subject,
		HTML:        result.HTML,
		Text:        result.Text,
		Attachments: attachments,
		Tags:        Tags{CampaignTag: campaignID},
	}
	if m.config.SenderEmail != "" {
		email.From = Recipient(p.SenderName, m.config.SenderEmail)
		email.ReplyTo = m.config.SenderEmail
	}

	return email, nil
}

// Send composes and delivers one email. It returns the provider message id.
func (m *Mailer) Send(ctx context.Context, campaignID string, p campaign.Payload) (string, error) {
	email, err := m.Compose(ctx, campaignID, p)
	if err != nil {
		return "", err
	}

	id, err := m.sender.Send(ctx, email)
	if err != nil {
		return "", errors.Join(ErrSendFailed, err)
	}

	m.logger.InfoContext(ctx, "email sent",
		slog.String("campaign_id", campaignID),
		slog.String("recipient", p.Recipient),
		slog.String("message_id", id),
	)
	return id, nil
}

// Deliver returns the delivery function for one campaign.
// Success reports 200 with {"id": ...}; any error reports 500 with {"error": ...}.
func (m *Mailer) Deliver(campaignID string) campaign.DeliveryFunc {
	return func(ctx context.Context, p campaign.Payload) (int, []byte) {
		id, err := m.Send(ctx, campaignID, p)
		if err != nil {
			m.logger.ErrorContext(ctx, "email delivery failed",
				slog.String("campaign_id", campaignID),
				slog.String("recipient", p.Recipient),
				slog.Any("error", err),
			)
			return http.StatusInternalServerError, response("error", err.Error())
		}
		return campaign.StatusOK, response("id", id)
	}
}

func (m *Mailer) loadImage(ctx context.Context, key string) (*Attachment, error) {
	if m.images == nil {
		return nil, ErrImageUnavailable
	}

	data, info, err := storage.ReadAll(ctx, m.images, key)
	if err != nil {
		return nil, errors.Join(ErrImageUnavailable, err)
	}
	if !storage.IsImage(info.ContentType) {
		return nil, errors.Join(ErrImageUnavailable, storage.ErrNotAnImage)
	}

	return &Attachment{
		Filename:    imageBaseName + storage.ExtFromMIME(info.ContentType),
		ContentType: info.ContentType,
		Content:     data,
	}, nil
}

func response(key, value string) []byte {
	b, _ := json.Marshal(map[string]string{key: value})
	return b
}
