package mailer

import (
	"context"
	"log/slog"
)

// LogMailer is a development stand-in used when no SendGrid API key is
// configured: it logs the reset link instead of sending it.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendResetEmail(ctx context.Context, toEmail, fullName, resetURL string) error {
	m.logger.Info("reset email (not sent, no mail provider configured)",
		"to", toEmail,
		"name", fullName,
		"url", resetURL,
	)
	return nil
}
