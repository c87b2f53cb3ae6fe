package email

// Email представляет структуру email сообщения
type Email struct {
	To      []string
	Subject string
	Body    string
}

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет email сообщение
	Send(email *Email) error

	// Enabled сообщает, настроена ли отправка почты
	Enabled() bool
}

// NoopProvider используется, когда SMTP не настроен: письма не отправляются.
type NoopProvider struct{}

func (NoopProvider) Send(*Email) error { return nil }
func (NoopProvider) Enabled() bool     { return false }
