package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeResetEmail = "mail:password_reset"
)

// ResetEmailPayload carries everything the worker needs to render and send a
// password-reset email. The raw reset token only travels inside the URL.
type ResetEmailPayload struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	ResetURL string `json:"reset_url"`
}

func NewResetEmailTask(payload ResetEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeResetEmail, data, asynq.Queue("mail"), asynq.MaxRetry(5)), nil
}
