package leads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/leadtrack/internal/database/models"
	"github.com/hugh/leadtrack/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrLeadNotFound = errors.New("lead not found")

	// ErrPersistence wraps storage failures that survived every retry
	// attempt. Callers surface a generic message; the detail stays in logs.
	ErrPersistence = errors.New("lead could not be persisted")
)

// ValidationError carries per-field messages for user-correctable input
// problems. Submission performs no side effects before validation passes.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Notifier triggers the two best-effort emails after a successful
// submission. Each send is independent; a false return is logged by the
// service and never fails the submission.
type Notifier interface {
	SendConfirmation(ctx context.Context, lead *models.Lead) bool
	SendReviewerNotification(ctx context.Context, lead *models.Lead) bool
}

const (
	createAttempts = 3
	retryDelay     = time.Second
)

type Service struct {
	db       *gorm.DB
	store    *storage.Store
	notifier Notifier
	logger   *slog.Logger
}

func NewService(db *gorm.DB, store *storage.Store, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		db:       db,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

type SubmitInput struct {
	FirstName string
	LastName  string
	Email     string
	Resume    io.Reader
	Filename  string
}

func (in SubmitInput) validate(store *storage.Store) map[string]string {
	fields := make(map[string]string)

	if strings.TrimSpace(in.FirstName) == "" {
		fields["first_name"] = "First name is required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		fields["last_name"] = "Last name is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		fields["email"] = "Email is required"
	} else if !strings.Contains(in.Email, "@") {
		fields["email"] = "Email is not a valid address"
	}
	if in.Resume == nil || in.Filename == "" {
		fields["resume"] = "Resume file is required"
	} else if !store.AllowedExtension(in.Filename) {
		fields["resume"] = "File type not allowed. Allowed types: pdf, doc, docx, txt"
	}

	return fields
}

// Submit validates the four inputs, stores the resume under a generated
// name, and creates the lead in state PENDING. The insert is retried to
// absorb momentary connection loss; if every attempt fails the stored file
// is removed before the error surfaces, so a failed submission leaves
// neither a file nor a row behind. Emails fire only after the row exists
// and never affect the outcome.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.Lead, error) {
	if fields := in.validate(s.store); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	filename, err := s.store.Save(in.Resume, in.Filename)
	if err != nil {
		return nil, fmt.Errorf("storing resume: %w", err)
	}

	lead := models.Lead{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		ResumePath: filename,
		State:      models.LeadStatePending,
	}

	if err := s.createWithRetry(ctx, &lead); err != nil {
		if removeErr := s.store.Remove(filename); removeErr != nil {
			// The file survived the cleanup; flag it for manual
			// reconciliation but keep the original error.
			s.logger.Error("failed to remove resume after persistence failure",
				"file", filename,
				"error", removeErr,
			)
		} else {
			s.logger.Info("removed resume after persistence failure", "file", filename)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if s.notifier != nil {
		if s.notifier.SendConfirmation(ctx, &lead) {
			s.logger.Info("confirmation email sent", "lead_id", lead.ID, "email", lead.Email)
		} else {
			s.logger.Warn("failed to send confirmation email", "lead_id", lead.ID, "email", lead.Email)
		}

		if s.notifier.SendReviewerNotification(ctx, &lead) {
			s.logger.Info("reviewer notification sent", "lead_id", lead.ID)
		} else {
			s.logger.Warn("failed to send reviewer notification", "lead_id", lead.ID)
		}
	}

	return &lead, nil
}

func (s *Service) createWithRetry(ctx context.Context, lead *models.Lead) error {
	var err error
	for attempt := 1; attempt <= createAttempts; attempt++ {
		err = s.db.WithContext(ctx).Create(lead).Error
		if err == nil {
			return nil
		}

		s.logger.Error("lead insert failed",
			"attempt", attempt,
			"max_attempts", createAttempts,
			"error", err,
		)

		if attempt < createAttempts {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}

type UpdateInput struct {
	// State, when set, must be one of the two workflow states.
	State *string

	// Notes replaces the stored notes verbatim when set, including the
	// empty string. nil means "leave unchanged".
	Notes *string
}

// Update applies the provided fields, stamps the acting reviewer, and
// refreshes updated_at. State and notes commit together or not at all.
func (s *Service) Update(ctx context.Context, leadID, reviewerID uuid.UUID, in UpdateInput) (*models.Lead, error) {
	updates := map[string]interface{}{
		"updated_by": reviewerID,
		"updated_at": time.Now(),
	}

	if in.State != nil {
		state := models.LeadState(*in.State)
		if !state.Valid() {
			return nil, &ValidationError{Fields: map[string]string{
				"state": "Invalid state. Must be one of: PENDING, REACHED_OUT",
			}}
		}
		updates["state"] = state
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}

	var lead models.Lead
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&lead, leadID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLeadNotFound
			}
			return err
		}

		if err := tx.Model(&lead).Updates(updates).Error; err != nil {
			return err
		}

		// Re-read inside the transaction so the caller sees the
		// committed values, not the in-memory struct.
		return tx.First(&lead, leadID).Error
	})
	if err != nil {
		return nil, err
	}

	return &lead, nil
}

// Get returns a single lead by ID.
func (s *Service) Get(ctx context.Context, leadID uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := s.db.WithContext(ctx).First(&lead, leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &lead, nil
}
