package email

// Provider sends transactional mail. The only message in scope is the
// address-verification mail sent at registration.
type Provider interface {
	SendVerification(to, name, token string) error
	Close() error
}

// Config holds SMTP settings.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}
