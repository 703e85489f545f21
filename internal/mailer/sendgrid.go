package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers transactional email through the SendGrid API.
type SendGridMailer struct {
	apiKey     string
	sender     string
	senderName string
}

func NewSendGridMailer(apiKey, sender, senderName string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:     apiKey,
		sender:     sender,
		senderName: senderName,
	}
}

func (m *SendGridMailer) SendResetEmail(ctx context.Context, toEmail, fullName, resetURL string) error {
	from := mail.NewEmail(m.senderName, m.sender)
	to := mail.NewEmail(fullName, toEmail)
	subject := "Password Reset Request"

	message := mail.NewSingleEmail(from, subject, to, resetPlainBody(fullName, resetURL), resetHTMLBody(fullName, resetURL))

	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sending reset email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sending reset email: sendgrid status %d", resp.StatusCode)
	}
	return nil
}

func resetPlainBody(fullName, resetURL string) string {
	return fmt.Sprintf(`Password Reset Request

Hi %s,

We received a request to reset your password. Open the link below to create a new password:

%s

This link will expire soon. If you didn't request this password reset, please ignore this email and your password will remain unchanged.
`, fullName, resetURL)
}

func resetHTMLBody(fullName, resetURL string) string {
	return fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>We received a request to reset your password. Click the button below to create a new password:</p>
<p><a href="%s" style="display:inline-block;padding:12px 30px;background-color:#4CAF50;color:#fff;text-decoration:none;border-radius:5px;">Reset Password</a></p>
<p>Or copy and paste this link into your browser:</p>
<p style="word-break:break-all;color:#666;">%s</p>
<p><strong>This link will expire soon.</strong></p>
<p>If you didn't request this password reset, please ignore this email. Your password will remain unchanged.</p>
</body></html>`, fullName, resetURL, resetURL)
}
