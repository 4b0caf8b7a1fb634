package mailer_test

import (
	"context"
	"testing"

	"github.com/hugh/leadtrack/internal/database/models"
	"github.com/hugh/leadtrack/internal/mailer"
	"github.com/hugh/leadtrack/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []mailer.Message
	ok   bool
}

func (c *captureSender) Send(msg mailer.Message) bool {
	c.sent = append(c.sent, msg)
	return c.ok
}

func TestNewConfirmation(t *testing.T) {
	msg := mailer.NewConfirmation("ada@example.com", "Ada", "Lovelace", "Acme")

	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "Thank you for your application, Ada!", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Dear Ada Lovelace")
	assert.Contains(t, msg.HTMLBody, "The Acme Team")
	assert.Empty(t, msg.AttachmentPath)
}

func TestNewReviewerNotification(t *testing.T) {
	msg := mailer.NewReviewerNotification(
		"reviewer@example.com",
		"Ada", "Lovelace",
		"ada@example.com",
		"/uploads/abc.pdf",
	)

	assert.Equal(t, "reviewer@example.com", msg.To)
	assert.Equal(t, "New Application: Ada Lovelace", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Ada Lovelace")
	assert.Contains(t, msg.HTMLBody, "ada@example.com")
	assert.Equal(t, "/uploads/abc.pdf", msg.AttachmentPath)
}

func TestNotifier(t *testing.T) {
	store, err := storage.NewStore(t.TempDir(), []string{"pdf"})
	require.NoError(t, err)

	lead := &models.Lead{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		ResumePath: "abc.pdf",
		State:      models.LeadStatePending,
	}

	t.Run("confirmation goes to the submitter", func(t *testing.T) {
		sender := &captureSender{ok: true}
		n := mailer.NewNotifier(sender, store, "reviewer@example.com", "Acme")

		ok := n.SendConfirmation(context.Background(), lead)
		assert.True(t, ok)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "ada@example.com", sender.sent[0].To)
	})

	t.Run("notification goes to the reviewer with the resume attached", func(t *testing.T) {
		sender := &captureSender{ok: true}
		n := mailer.NewNotifier(sender, store, "reviewer@example.com", "Acme")

		ok := n.SendReviewerNotification(context.Background(), lead)
		assert.True(t, ok)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "reviewer@example.com", sender.sent[0].To)
		assert.Equal(t, store.Path("abc.pdf"), sender.sent[0].AttachmentPath)
	})

	t.Run("propagates a failed send", func(t *testing.T) {
		sender := &captureSender{ok: false}
		n := mailer.NewNotifier(sender, store, "reviewer@example.com", "Acme")

		assert.False(t, n.SendConfirmation(context.Background(), lead))
	})
}
