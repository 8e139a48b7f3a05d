package email

import (
	"fmt"
	"net/smtp"
)

// SMTPMailer sends HTML email over plain SMTP. It is constructed once at
// startup and injected wherever mail is sent, so tests can substitute a
// fake.
type SMTPMailer struct {
	host     string
	port     string
	sender   string
	password string
}

// NewSMTPMailer creates a mailer from SMTP credentials.
func NewSMTPMailer(host, port, sender, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		sender:   sender,
		password: password,
	}
}

// Send sends a single HTML email.
func (m *SMTPMailer) Send(to, subject, html string) error {
	auth := smtp.PlainAuth("", m.sender, m.password, m.host)

	msg := []byte("To: " + to + "\r\n" +
		"From: " + m.sender + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + html + "\r\n")

	address := m.host + ":" + m.port

	if err := smtp.SendMail(address, auth, m.sender, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
