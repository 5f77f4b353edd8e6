package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const (
	TemplateApplicationReceived = "application_received"
	TemplateApplicationStatus   = "application_status"
)

var builtinTemplates = map[string]string{
	TemplateApplicationReceived: `<p>Hello {{.EmployerName}},</p>
<p>{{.ApplicantName}} applied to <strong>{{.JobTitle}}</strong>.</p>
<p>Resume: <a href="{{.ResumeURL}}">{{.ResumeURL}}</a></p>
{{if .CoverLetter}}<blockquote>{{.CoverLetter}}</blockquote>{{end}}`,
	TemplateApplicationStatus: `<p>Hello {{.ApplicantName}},</p>
<p>Your application to <strong>{{.JobTitle}}</strong> at {{.Company}} is now <strong>{{.Status}}</strong>.</p>`,
}

// TemplateManager хранит распарсенные шаблоны писем
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	for name, body := range builtinTemplates {
		// встроенные шаблоны проверяются тестами
		_ = tm.AddTemplate(name, body)
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

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Option("missingkey=zero").Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}
