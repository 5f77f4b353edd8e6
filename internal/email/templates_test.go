package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_BuiltinsRender(t *testing.T) {
	tm := NewTemplateManager()

	html, err := tm.Render(TemplateApplicationReceived, TemplateData{
		"EmployerName":  "Erin",
		"ApplicantName": "Sam <script>",
		"JobTitle":      "Go Developer",
		"ResumeURL":     "http://localhost/uploads/resumes/1-cv.pdf",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Go Developer")
	assert.Contains(t, html, "Sam &lt;script&gt;")
	assert.NotContains(t, html, "blockquote")

	html, err = tm.Render(TemplateApplicationStatus, TemplateData{
		"ApplicantName": "Sam",
		"JobTitle":      "Go Developer",
		"Company":       "Acme",
		"Status":        "accepted",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "accepted")
}

func TestTemplateManager_UnknownTemplate(t *testing.T) {
	_, err := NewTemplateManager().Render("nope", nil)
	assert.Error(t, err)
}

func TestHTMLToText(t *testing.T) {
	assert.Equal(t, "Hello Sam,\nYour application", htmlToText("<p>Hello Sam,</p>\n<p>Your <b>application</b></p>"))
}

func TestLogProvider_ValidatesTemplate(t *testing.T) {
	p := NewLogProvider(NewTemplateManager())

	assert.NoError(t, p.SendTemplate(context.Background(), []string{"a@x.com"}, "s", TemplateApplicationStatus, TemplateData{}))
	assert.Error(t, p.SendTemplate(context.Background(), []string{"a@x.com"}, "s", "missing", TemplateData{}))
}

func TestNewSMTPProvider_RequiresHost(t *testing.T) {
	_, err := NewSMTPProvider(SMTPConfig{FromEmail: "a@x.com"}, NewTemplateManager())
	assert.Error(t, err)

	p, err := NewSMTPProvider(SMTPConfig{Host: "smtp.local", Port: 587, FromEmail: "a@x.com"}, NewTemplateManager())
	require.NoError(t, err)
	assert.NotNil(t, p)
}
