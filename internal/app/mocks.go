package app

// MockEmailProvider is used for tests and local development where no
// SMTP relay is configured.
type MockEmailProvider struct{}

func (m *MockEmailProvider) SendVerification(to, name, token string) error { return nil }
func (m *MockEmailProvider) Close() error                                  { return nil }
