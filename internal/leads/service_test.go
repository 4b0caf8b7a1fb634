package leads_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/leadtrack/internal/database/models"
	"github.com/hugh/leadtrack/internal/leads"
	"github.com/hugh/leadtrack/internal/storage"
	"github.com/hugh/leadtrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeNotifier records calls and returns configurable outcomes.
type fakeNotifier struct {
	confirmations  []uuid.UUID
	notifications  []uuid.UUID
	confirmationOK bool
	notificationOK bool
}

func (f *fakeNotifier) SendConfirmation(ctx context.Context, lead *models.Lead) bool {
	f.confirmations = append(f.confirmations, lead.ID)
	return f.confirmationOK
}

func (f *fakeNotifier) SendReviewerNotification(ctx context.Context, lead *models.Lead) bool {
	f.notifications = append(f.notifications, lead.ID)
	return f.notificationOK
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{confirmationOK: true, notificationOK: true}
}

func setupService(t *testing.T) (*leads.Service, *gorm.DB, string, *fakeNotifier) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	dir := t.TempDir()
	store, err := storage.NewStore(dir, []string{"pdf", "doc", "docx", "txt"})
	require.NoError(t, err)

	notifier := newFakeNotifier()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	service := leads.NewService(db, store, notifier, logger)

	return service, db, dir, notifier
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func validInput() leads.SubmitInput {
	return leads.SubmitInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Resume:    strings.NewReader("resume content"),
		Filename:  "resume.pdf",
	}
}

func TestService_Submit(t *testing.T) {
	t.Run("creates a pending lead and stores the resume", func(t *testing.T) {
		service, db, dir, notifier := setupService(t)

		lead, err := service.Submit(context.Background(), validInput())
		require.NoError(t, err)

		assert.Equal(t, "Ada", lead.FirstName)
		assert.Equal(t, "Lovelace", lead.LastName)
		assert.Equal(t, "ada@example.com", lead.Email)
		assert.Equal(t, models.LeadStatePending, lead.State)
		assert.NotEqual(t, uuid.Nil, lead.ID)
		assert.Nil(t, lead.UpdatedBy)

		// Row persisted
		var stored models.Lead
		require.NoError(t, db.First(&stored, lead.ID).Error)
		assert.Equal(t, models.LeadStatePending, stored.State)

		// Resume stored under a generated name
		files := storedFiles(t, dir)
		require.Len(t, files, 1)
		assert.Equal(t, lead.ResumePath, files[0])
		assert.NotEqual(t, "resume.pdf", files[0])

		// Both emails triggered for the created lead
		assert.Equal(t, []uuid.UUID{lead.ID}, notifier.confirmations)
		assert.Equal(t, []uuid.UUID{lead.ID}, notifier.notifications)
	})

	t.Run("rejects missing fields without side effects", func(t *testing.T) {
		service, db, dir, notifier := setupService(t)

		in := validInput()
		in.FirstName = ""
		in.Email = ""

		_, err := service.Submit(context.Background(), in)

		var verr *leads.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "first_name")
		assert.Contains(t, verr.Fields, "email")
		assert.NotContains(t, verr.Fields, "last_name")

		var count int64
		db.Model(&models.Lead{}).Count(&count)
		assert.Zero(t, count)
		assert.Empty(t, storedFiles(t, dir))
		assert.Empty(t, notifier.confirmations)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		service, _, _, _ := setupService(t)

		in := validInput()
		in.Email = "not-an-address"

		_, err := service.Submit(context.Background(), in)

		var verr *leads.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "email")
	})

	t.Run("rejects disallowed file type without storing", func(t *testing.T) {
		service, _, dir, _ := setupService(t)

		in := validInput()
		in.Filename = "resume.exe"

		_, err := service.Submit(context.Background(), in)

		var verr *leads.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "resume")
		assert.Empty(t, storedFiles(t, dir))
	})

	t.Run("rejects missing resume", func(t *testing.T) {
		service, _, _, _ := setupService(t)

		in := validInput()
		in.Resume = nil
		in.Filename = ""

		_, err := service.Submit(context.Background(), in)

		var verr *leads.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "resume")
	})

	t.Run("removes the stored resume when persistence fails", func(t *testing.T) {
		service, db, dir, notifier := setupService(t)

		// Kill the connection so every insert attempt fails
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		_, err = service.Submit(context.Background(), validInput())
		require.ErrorIs(t, err, leads.ErrPersistence)

		assert.Empty(t, storedFiles(t, dir))
		assert.Empty(t, notifier.confirmations)
		assert.Empty(t, notifier.notifications)
	})

	t.Run("recovers when the insert fails transiently", func(t *testing.T) {
		service, db, dir, notifier := setupService(t)

		// First insert attempt errors, later attempts go through
		failures := 1
		err := db.Callback().Create().Before("gorm:create").Register("flaky_insert", func(tx *gorm.DB) {
			if tx.Statement.Table == "leads" && failures > 0 {
				failures--
				tx.AddError(errors.New("connection reset by peer"))
			}
		})
		require.NoError(t, err)

		lead, err := service.Submit(context.Background(), validInput())
		require.NoError(t, err)
		assert.Equal(t, models.LeadStatePending, lead.State)
		assert.Zero(t, failures)

		// Row and file both survive
		var count int64
		db.Model(&models.Lead{}).Count(&count)
		assert.Equal(t, int64(1), count)

		files := storedFiles(t, dir)
		require.Len(t, files, 1)
		assert.Equal(t, lead.ResumePath, files[0])

		// Emails fire after the successful retry
		assert.Equal(t, []uuid.UUID{lead.ID}, notifier.confirmations)
		assert.Equal(t, []uuid.UUID{lead.ID}, notifier.notifications)
	})

	t.Run("succeeds even when both emails fail", func(t *testing.T) {
		service, _, _, notifier := setupService(t)
		notifier.confirmationOK = false
		notifier.notificationOK = false

		lead, err := service.Submit(context.Background(), validInput())
		require.NoError(t, err)
		assert.Equal(t, models.LeadStatePending, lead.State)

		// Both sends were still attempted
		assert.Len(t, notifier.confirmations, 1)
		assert.Len(t, notifier.notifications, 1)
	})

	t.Run("allows duplicate submissions from the same email", func(t *testing.T) {
		service, db, _, _ := setupService(t)

		_, err := service.Submit(context.Background(), validInput())
		require.NoError(t, err)
		_, err = service.Submit(context.Background(), validInput())
		require.NoError(t, err)

		var count int64
		db.Model(&models.Lead{}).Where("email = ?", "ada@example.com").Count(&count)
		assert.Equal(t, int64(2), count)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("transitions state and stamps the reviewer", func(t *testing.T) {
		service, db, _, _ := setupService(t)

		lead := testutil.CreateTestLead(t, db, models.LeadStatePending)
		reviewer := testutil.CreateTestUser(t, db)

		state := string(models.LeadStateReachedOut)
		updated, err := service.Update(context.Background(), lead.ID, reviewer.ID, leads.UpdateInput{
			State: &state,
		})
		require.NoError(t, err)

		assert.Equal(t, models.LeadStateReachedOut, updated.State)
		require.NotNil(t, updated.UpdatedBy)
		assert.Equal(t, reviewer.ID, *updated.UpdatedBy)
		assert.False(t, updated.UpdatedAt.Before(lead.UpdatedAt))
	})

	t.Run("allows moving back to pending", func(t *testing.T) {
		service, db, _, _ := setupService(t)

		lead := testutil.CreateTestLead(t, db, models.LeadStateReachedOut)
		reviewer := testutil.CreateTestUser(t, db)

		state := string(models.LeadStatePending)
		updated, err := service.Update(context.Background(), lead.ID, reviewer.ID, leads.UpdateInput{
			State: &state,
		})
		require.NoError(t, err)
		assert.Equal(t, models.LeadStatePending, updated.State)
	})

	t.Run("rejects an unknown state", func(t *testing.T) {
		service, db, _, _ := setupService(t)

		lead := testutil.CreateTestLead(t, db, models.LeadStatePending)
		reviewer := testutil.CreateTestUser(t, db)

		state := "ARCHIVED"
		_, err := service.Update(context.Background(), lead.ID, reviewer.ID, leads.UpdateInput{
			State: &state,
		})

		var verr *leads.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "state")

		// Lead unchanged
		fresh, err := service.Get(context.Background(), lead.ID)
		require.NoError(t, err)
		assert.Equal(t, models.LeadStatePending, fresh.State)
	})

	t.Run("distinguishes absent notes from empty notes", func(t *testing.T) {
		service, db, _, _ := setupService(t)

		lead := testutil.CreateTestLead(t, db, models.LeadStatePending)
		reviewer := testutil.CreateTestUser(t, db)

		notes := "called twice, no answer"
		updated, err := service.Update(context.Background(), lead.ID, reviewer.ID, leads.UpdateInput{
			Notes: &notes,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Notes)
		assert.Equal(t, notes, *updated.Notes)

		// nil notes leaves the stored value alone
		state := string(models.LeadStateReachedOut)
		updated, err = service.Update(context.Background(), lead.ID, reviewer.ID, leads.UpdateInput{
			State: &state,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Notes)
		assert.Equal(t, notes, *updated.Notes)

		// empty string clears the text
		empty := ""
		updated, err = service.Update(context.Background(), lead.ID, reviewer.ID, leads.UpdateInput{
			Notes: &empty,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Notes)
		assert.Equal(t, "", *updated.Notes)
	})

	t.Run("update with no fields still stamps the reviewer", func(t *testing.T) {
		service, db, _, _ := setupService(t)

		lead := testutil.CreateTestLead(t, db, models.LeadStatePending)
		reviewer := testutil.CreateTestUser(t, db)

		updated, err := service.Update(context.Background(), lead.ID, reviewer.ID, leads.UpdateInput{})
		require.NoError(t, err)

		assert.Equal(t, models.LeadStatePending, updated.State)
		require.NotNil(t, updated.UpdatedBy)
		assert.Equal(t, reviewer.ID, *updated.UpdatedBy)
	})

	t.Run("returns not found for a missing lead", func(t *testing.T) {
		service, db, _, _ := setupService(t)

		reviewer := testutil.CreateTestUser(t, db)

		state := string(models.LeadStateReachedOut)
		_, err := service.Update(context.Background(), uuid.New(), reviewer.ID, leads.UpdateInput{
			State: &state,
		})
		assert.True(t, errors.Is(err, leads.ErrLeadNotFound))
	})
}

func TestService_Get(t *testing.T) {
	service, db, _, _ := setupService(t)

	lead := testutil.CreateTestLead(t, db, models.LeadStatePending)

	t.Run("returns the lead", func(t *testing.T) {
		got, err := service.Get(context.Background(), lead.ID)
		require.NoError(t, err)
		assert.Equal(t, lead.ID, got.ID)
	})

	t.Run("returns not found for an unknown id", func(t *testing.T) {
		_, err := service.Get(context.Background(), uuid.New())
		assert.True(t, errors.Is(err, leads.ErrLeadNotFound))
	})
}
