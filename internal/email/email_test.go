package email

import (
	"testing"

	"shebeka_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_RenderWelcome(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	html, err := tm.Render(TemplateWelcome, TemplateData{"Name": "Aida", "Role": "RECRUITER"})
	require.NoError(t, err)
	assert.Contains(t, html, "Welcome to Shebeka, Aida!")
	assert.Contains(t, html, "recruiter account")

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestNewProvider_DisabledUsesLogProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Email.Enabled = false

	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &LogProvider{}, p)
	assert.NoError(t, SendWelcome(p, "a@example.com", "A", "APPLIER"))
}

func TestNewProvider_EnabledRequiresHost(t *testing.T) {
	cfg := config.Default()
	cfg.Email.Enabled = true
	cfg.Email.SMTPHost = ""

	_, err := NewProvider(cfg)
	assert.Error(t, err)
}

func TestSMTPProvider_BuildMessage(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	p := NewSMTPProvider(SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "no-reply@shebeka.com", FromName: "Shebeka"}, tm)
	require.NoError(t, p.Validate())

	m := p.buildMessage(&Email{To: []string{"a@example.com"}, Subject: "Hi", Body: "text"})
	assert.Equal(t, []string{"Hi"}, m.GetHeader("Subject"))
	assert.Equal(t, []string{"a@example.com"}, m.GetHeader("To"))

	assert.Error(t, p.Send(&Email{Subject: "no recipients"}))
}
