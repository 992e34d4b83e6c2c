package mailer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogSender writes emails to the log instead of sending them.
// Used when no provider API key is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, email *Email) (string, error) {
	if len(email.To) == 0 {
		return "", ErrNoRecipient
	}

	id := "log_" + uuid.NewString()
	s.logger.InfoContext(ctx, "email not sent: log sender",
		slog.String("message_id", id),
		slog.Any("to", email.To),
		slog.String("from", email.From),
		slog.String("subject", email.Subject),
		slog.Int("attachments", len(email.Attachments)),
		slog.String("text", email.Text),
	)
	return id, nil
}

var _ Sender = (*LogSender)(nil)
