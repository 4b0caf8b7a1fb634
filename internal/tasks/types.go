package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeEmailConfirmation = "email:confirmation"
	TypeEmailNotification = "email:reviewer_notification"
)

// EmailPayload identifies the lead whose emails should be delivered. The
// worker loads the current record so deliveries reflect persisted state.
type EmailPayload struct {
	LeadID uuid.UUID `json:"lead_id"`
}

func NewConfirmationEmailTask(payload EmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailConfirmation, data), nil
}

func NewNotificationEmailTask(payload EmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailNotification, data), nil
}
