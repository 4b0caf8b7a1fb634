package mailer

import "fmt"

// NewConfirmation builds the message sent to the submitter after their lead
// has been persisted.
func NewConfirmation(to, firstName, lastName, companyName string) Message {
	body := fmt.Sprintf(`
<html>
<body>
	<h2>Thank you for your application!</h2>

	<p>Dear %s %s,</p>

	<p>We have received your application and resume. Our team will review your
	information and get back to you as soon as possible.</p>

	<p>If you have any questions in the meantime, please feel free to contact us.</p>

	<p>Best regards,<br>
	The %s Team</p>
</body>
</html>
`, firstName, lastName, companyName)

	return Message{
		To:       to,
		Subject:  fmt.Sprintf("Thank you for your application, %s!", firstName),
		HTMLBody: body,
	}
}

// NewReviewerNotification builds the message sent to the configured reviewer
// address, with the stored resume attached.
func NewReviewerNotification(to, firstName, lastName, submitterEmail, resumePath string) Message {
	body := fmt.Sprintf(`
<html>
<body>
	<h2>New Application Submitted</h2>

	<p>A new application has been submitted with the following details:</p>

	<ul>
		<li><strong>Name:</strong> %s %s</li>
		<li><strong>Email:</strong> %s</li>
	</ul>

	<p>The applicant's resume is attached to this email. You can also view and
	manage this application in the dashboard.</p>
</body>
</html>
`, firstName, lastName, submitterEmail)

	return Message{
		To:             to,
		Subject:        fmt.Sprintf("New Application: %s %s", firstName, lastName),
		HTMLBody:       body,
		AttachmentPath: resumePath,
	}
}
