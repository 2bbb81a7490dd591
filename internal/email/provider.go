package email

import (
	"shebeka_backend/internal/config"
	"shebeka_backend/internal/logger"
)

const TemplateWelcome = "welcome"

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет письмо как есть
	Send(email *Email) error

	// SendTemplate рендерит шаблон и отправляет результат
	SendTemplate(to []string, subject, templateName string, data TemplateData) error
}

// NewProvider - SMTP при email.enabled, иначе письма только пишутся в лог
func NewProvider(cfg *config.Config) (Provider, error) {
	renderer, err := NewTemplateManager()
	if err != nil {
		return nil, err
	}

	if !cfg.Email.Enabled {
		logger.Info("Email delivery disabled, using log provider")
		return NewLogProvider(renderer), nil
	}

	provider := NewSMTPProvider(SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, renderer)
	if err := provider.Validate(); err != nil {
		return nil, err
	}
	return provider, nil
}

// SendWelcome - приветственное письмо после регистрации
func SendWelcome(p Provider, to, name, role string) error {
	return p.SendTemplate([]string{to}, "Welcome to Shebeka", TemplateWelcome, TemplateData{
		"Name": name,
		"Role": role,
	})
}
