package mailer

import (
	"log/slog"
	"os"

	"github.com/hugh/leadtrack/pkg/config"
	"gopkg.in/gomail.v2"
)

// Message is one outbound transactional email. AttachmentPath is optional;
// a missing file downgrades the send to body-only rather than failing it.
type Message struct {
	To             string
	Subject        string
	HTMLBody       string
	AttachmentPath string
}

// Sender delivers a message best-effort. Implementations log failures and
// report them through the boolean only; no error crosses this boundary.
type Sender interface {
	Send(msg Message) bool
}

type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *slog.Logger
}

func NewSMTPSender(cfg *config.SMTPConfig, from string, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
		logger:   logger,
	}
}

func (s *SMTPSender) Send(msg Message) bool {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if msg.AttachmentPath != "" {
		if _, err := os.Stat(msg.AttachmentPath); err == nil {
			m.Attach(msg.AttachmentPath)
		} else {
			s.logger.Warn("attachment missing, sending without it",
				"path", msg.AttachmentPath,
				"recipient", msg.To,
			)
		}
	}

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		s.logger.Error("failed to send email",
			"recipient", msg.To,
			"subject", msg.Subject,
			"error", err,
		)
		return false
	}

	s.logger.Info("email sent", "recipient", msg.To, "subject", msg.Subject)
	return true
}
