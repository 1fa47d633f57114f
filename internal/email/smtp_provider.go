package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider implements Provider over a plain SMTP relay.
type SMTPProvider struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

func NewSMTPProvider(cfg Config) *SMTPProvider {
	return &SMTPProvider{
		dialer:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (p *SMTPProvider) SendVerification(to, name, token string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.fromEmail, p.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Verify your email address")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nPlease verify your email address using the token below:\n\n%s\n\nIf you did not sign up, ignore this message.\n",
		name, token,
	))

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (p *SMTPProvider) Close() error {
	return nil
}
