package email

import (
	"fmt"
	"strings"
	"sync"
	"text/template"
)

const (
	TemplateContactAdmin        = "contact_admin"
	TemplateContactConfirmation = "contact_confirmation"
)

const contactAdminTemplate = `New Contact Form Submission

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

Message:
{{.Message}}

---
This message was sent from the ARCHIVED contact form.`

const contactConfirmationTemplate = `Dear {{.Name}},

Thank you for contacting us! We have received your message and will get back to you as soon as possible.

Your message:
Subject: {{.Subject}}
Message: {{.Message}}

Best regards,
The ARCHIVED Team`

// TemplateManager реализует TemplateRenderer для текстовых писем
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	// встроенные шаблоны валидны, ошибка здесь - баг в коде
	for name, body := range map[string]string{
		TemplateContactAdmin:        contactAdminTemplate,
		TemplateContactConfirmation: contactConfirmationTemplate,
	} {
		if err := tm.AddTemplate(name, body); err != nil {
			panic(err)
		}
	}
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}
