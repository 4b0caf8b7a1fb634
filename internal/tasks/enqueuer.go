package tasks

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/hugh/leadtrack/internal/database/models"
)

// Enqueuer implements the workflow's Notifier by handing the sends to the
// task queue. Enqueue failures are logged and reported through the boolean;
// they never reach the submitter.
type Enqueuer struct {
	client *asynq.Client
	logger *slog.Logger
}

func NewEnqueuer(client *asynq.Client, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{client: client, logger: logger}
}

func (e *Enqueuer) SendConfirmation(ctx context.Context, lead *models.Lead) bool {
	task, err := NewConfirmationEmailTask(EmailPayload{LeadID: lead.ID})
	if err != nil {
		e.logger.Error("failed to build confirmation task", "lead_id", lead.ID, "error", err)
		return false
	}
	return e.enqueue(ctx, task, lead)
}

func (e *Enqueuer) SendReviewerNotification(ctx context.Context, lead *models.Lead) bool {
	task, err := NewNotificationEmailTask(EmailPayload{LeadID: lead.ID})
	if err != nil {
		e.logger.Error("failed to build notification task", "lead_id", lead.ID, "error", err)
		return false
	}
	return e.enqueue(ctx, task, lead)
}

func (e *Enqueuer) enqueue(ctx context.Context, task *asynq.Task, lead *models.Lead) bool {
	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		e.logger.Error("failed to enqueue email task",
			"type", task.Type(),
			"lead_id", lead.ID,
			"error", err,
		)
		return false
	}

	e.logger.Info("email task enqueued", "type", task.Type(), "task_id", info.ID, "lead_id", lead.ID)
	return true
}
