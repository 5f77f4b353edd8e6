package email

import (
	"context"

	"jobboard_backend/internal/logger"
)

// LogProvider пишет письма в лог вместо отправки. Используется, когда SMTP не настроен.
type LogProvider struct {
	templates *TemplateManager
}

func NewLogProvider(templates *TemplateManager) *LogProvider {
	return &LogProvider{templates: templates}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	logger.CtxInfo(ctx, "📧 email (not sent, smtp disabled)", "to", email.To, "subject", email.Subject)
	return nil
}

func (p *LogProvider) SendTemplate(ctx context.Context, to []string, subject string, templateName string, data TemplateData) error {
	if _, err := p.templates.Render(templateName, data); err != nil {
		return err
	}
	return p.Send(ctx, &Email{To: to, Subject: subject})
}
