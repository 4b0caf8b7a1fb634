package mailer

import (
	"context"

	"github.com/hugh/leadtrack/internal/database/models"
	"github.com/hugh/leadtrack/internal/storage"
)

// Notifier sends the submission emails inline over SMTP. The server uses it
// when no task queue is available; the worker uses it to deliver queued
// sends.
type Notifier struct {
	sender        Sender
	store         *storage.Store
	reviewerEmail string
	companyName   string
}

func NewNotifier(sender Sender, store *storage.Store, reviewerEmail, companyName string) *Notifier {
	return &Notifier{
		sender:        sender,
		store:         store,
		reviewerEmail: reviewerEmail,
		companyName:   companyName,
	}
}

func (n *Notifier) SendConfirmation(ctx context.Context, lead *models.Lead) bool {
	return n.sender.Send(NewConfirmation(lead.Email, lead.FirstName, lead.LastName, n.companyName))
}

func (n *Notifier) SendReviewerNotification(ctx context.Context, lead *models.Lead) bool {
	return n.sender.Send(NewReviewerNotification(
		n.reviewerEmail,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		n.store.Path(lead.ResumePath),
	))
}
