package email

import "context"

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет простое email сообщение
	Send(ctx context.Context, email *Email) error

	// SendTemplate отправляет email по шаблону
	SendTemplate(ctx context.Context, to []string, subject string, templateName string, data TemplateData) error
}
