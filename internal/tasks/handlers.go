package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/hugh/leadtrack/internal/database/models"
	"github.com/hugh/leadtrack/internal/leads"
	"gorm.io/gorm"
)

// Handler delivers queued emails. Email is a best-effort side effect, so a
// failed send is logged and the task still completes; returning an error
// would only make asynq redeliver a message the submitter never waits for.
type Handler struct {
	db       *gorm.DB
	notifier leads.Notifier
	logger   *slog.Logger
}

func NewHandler(db *gorm.DB, notifier leads.Notifier, logger *slog.Logger) *Handler {
	return &Handler{
		db:       db,
		notifier: notifier,
		logger:   logger,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeEmailConfirmation, h.HandleConfirmationEmail)
	mux.HandleFunc(TypeEmailNotification, h.HandleNotificationEmail)
}

func (h *Handler) HandleConfirmationEmail(ctx context.Context, t *asynq.Task) error {
	lead, err := h.loadLead(ctx, t)
	if err != nil || lead == nil {
		return err
	}

	if h.notifier.SendConfirmation(ctx, lead) {
		h.logger.Info("confirmation email delivered", "lead_id", lead.ID, "email", lead.Email)
	} else {
		h.logger.Warn("confirmation email delivery failed", "lead_id", lead.ID, "email", lead.Email)
	}
	return nil
}

func (h *Handler) HandleNotificationEmail(ctx context.Context, t *asynq.Task) error {
	lead, err := h.loadLead(ctx, t)
	if err != nil || lead == nil {
		return err
	}

	if h.notifier.SendReviewerNotification(ctx, lead) {
		h.logger.Info("reviewer notification delivered", "lead_id", lead.ID)
	} else {
		h.logger.Warn("reviewer notification delivery failed", "lead_id", lead.ID)
	}
	return nil
}

// loadLead returns nil, nil when the lead has vanished since enqueue; there
// is nothing left to notify about and the task should not be retried.
func (h *Handler) loadLead(ctx context.Context, t *asynq.Task) (*models.Lead, error) {
	var payload EmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	var lead models.Lead
	if err := h.db.WithContext(ctx).First(&lead, payload.LeadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Warn("lead no longer exists, dropping email task",
				"type", t.Type(),
				"lead_id", payload.LeadID,
			)
			return nil, nil
		}
		return nil, fmt.Errorf("loading lead %s: %w", payload.LeadID, err)
	}

	return &lead, nil
}
