package email

import "errors"

var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Email - текстовое письмо; пустой From заменяется адресом из конфигурации провайдера
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
}

type TemplateData map[string]interface{}

type Provider interface {
	Send(email *Email) error
	// SendTemplate отрисовывает шаблон templateName в тело письма
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error
	// Validate - nil, если провайдер может отправлять письма
	Validate() error
}

type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}
