package notify

import (
	"errors"
	"fmt"
	"net/smtp"
	"os"
)

// EmailSender delivers over plain SMTP. The corpus carries no mail library,
// so neither do we.
type EmailSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Subject  string
}

func NewEmailSender() *EmailSender {
	return &EmailSender{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASS"),
		From:     os.Getenv("SMTP_FROM"),
		Subject:  "Affiliate Program Update",
	}
}

func (s *EmailSender) Send(destination string, content string) error {
	if s.Host == "" || s.Username == "" {
		return errors.New("SMTP not configured")
	}

	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", destination, s.Subject, content))

	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)
	return smtp.SendMail(addr, auth, s.From, []string{destination}, msg)
}
