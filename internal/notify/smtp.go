package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"staffdesk/api/internal/config"
)

// SMTPDispatcher sends directly over SMTP for deploys without a mail queue.
type SMTPDispatcher struct {
	cfg config.MailConfig
}

func NewSMTPDispatcher(cfg config.MailConfig) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg}
}

func (d *SMTPDispatcher) Send(_ context.Context, to, subject, html string) error {
	if d.cfg.SMTPHost == "" || d.cfg.SMTPPort == "" {
		return fmt.Errorf("missing SMTP configuration")
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"utf-8\"\r\n"+
			"\r\n%s\r\n",
		d.cfg.From, to, subject, html,
	))

	var auth smtp.Auth
	if d.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", d.cfg.SMTPUser, d.cfg.SMTPPass, d.cfg.SMTPHost)
	}
	return smtp.SendMail(d.cfg.SMTPHost+":"+d.cfg.SMTPPort, auth, d.cfg.From, []string{to}, msg)
}
