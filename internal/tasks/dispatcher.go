package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clientdesk/clientdesk/internal/auth"
	"github.com/hibiken/asynq"
)

// Dispatcher enqueues outbound email work instead of sending inline, so the
// HTTP path never blocks on the mail provider.
type Dispatcher struct {
	client *asynq.Client
	logger *slog.Logger
}

func NewDispatcher(client *asynq.Client, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{client: client, logger: logger}
}

func (d *Dispatcher) SendResetEmail(ctx context.Context, toEmail, fullName, resetURL string) error {
	task, err := NewResetEmailTask(ResetEmailPayload{
		Email:    toEmail,
		FullName: fullName,
		ResetURL: resetURL,
	})
	if err != nil {
		return fmt.Errorf("building reset email task: %w", err)
	}

	info, err := d.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueueing reset email: %w", err)
	}

	d.logger.Debug("enqueued reset email", "task_id", info.ID, "queue", info.Queue)
	return nil
}

var _ auth.ResetMailer = (*Dispatcher)(nil)
