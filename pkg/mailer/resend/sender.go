package resend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/outreach/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend API.
// Inline attachments keep their Content-ID so the HTML body can reference them.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a new Resend sender.
// Emails without a From address use the configured sender.
func New(cfg Config) (*Sender, error) {
	client := resend.NewClient(cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("resend: invalid base url: %w", err)
		}
		client.BaseURL = u
	}

	return &Sender{
		client: client,
		config: cfg,
	}, nil
}

// Send implements mailer.Sender. It returns the Resend email id.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (string, error) {
	if len(email.To) == 0 {
		return "", mailer.ErrNoRecipient
	}

	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Headers: email.Headers,
	}

	// Convert attachments
	if len(email.Attachments) > 0 {
		req.Attachments = s.convertAttachments(email.Attachments)
	}

	// Convert tags
	if len(email.Tags) > 0 {
		req.Tags = s.convertTags(email.Tags)
	}

	resp, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resend: failed to send email: %w", err)
	}

	return resp.Id, nil
}

func (s *Sender) convertAttachments(attachments []mailer.Attachment) []*resend.Attachment {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		}
	}
	return result
}

func (s *Sender) convertTags(tags mailer.Tags) []resend.Tag {
	result := make([]resend.Tag, 0, len(tags))
	for name, value := range tags {
		result = append(result, resend.Tag{
			Name:  name,
			Value: tagValue(value),
		})
	}
	return result
}

// tagValue converts any value to a string for Resend's tag API.
// Presence-only tags (struct{}{}) become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true" // presence-only tag
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

var _ mailer.Sender = (*Sender)(nil)
