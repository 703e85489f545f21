package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/clientdesk/clientdesk/internal/auth"
	"github.com/hibiken/asynq"
)

type Handler struct {
	mailer auth.ResetMailer
	logger *slog.Logger
}

func NewHandler(mailer auth.ResetMailer, logger *slog.Logger) *Handler {
	return &Handler{
		mailer: mailer,
		logger: logger,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeResetEmail, h.HandleResetEmail)
}

func (h *Handler) HandleResetEmail(ctx context.Context, t *asynq.Task) error {
	var payload ResetEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	h.logger.Info("sending reset email", "to", payload.Email)

	if err := h.mailer.SendResetEmail(ctx, payload.Email, payload.FullName, payload.ResetURL); err != nil {
		h.logger.Error("reset email delivery failed", "to", payload.Email, "error", err)
		return err
	}

	return nil
}
