// Package mailer delivers OTP codes to a party's registered email address.
package mailer

import (
	"fmt"
	"net/smtp"
	"os"

	"github.com/rs/zerolog/log"
)

// Mailer sends a single message to one recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends through a plain SMTP relay configured from the
// environment (SMTP_ADDR, SMTP_FROM, SMTP_USER, SMTP_PASS).
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPMailer() *SMTPMailer {
	addr := os.Getenv("SMTP_ADDR")
	from := os.Getenv("SMTP_FROM")
	var auth smtp.Auth
	if user := os.Getenv("SMTP_USER"); user != "" {
		host := addr
		for i := range addr {
			if addr[i] == ':' {
				host = addr[:i]
				break
			}
		}
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASS"), host)
	}
	return &SMTPMailer{addr: addr, from: from, auth: auth}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}

// LogMailer logs instead of sending. Default when SMTP is not configured,
// so local setups can read the OTP off the console.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	log.Info().Str("to", to).Str("subject", subject).Str("body", body).Msg("mail (not sent, SMTP unconfigured)")
	return nil
}

// FromEnv picks the SMTP mailer when configured, the log mailer otherwise.
func FromEnv() Mailer {
	if os.Getenv("SMTP_ADDR") != "" {
		return NewSMTPMailer()
	}
	return LogMailer{}
}
