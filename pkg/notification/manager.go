package notification

import (
	"bytes"
	"fmt"
	"text/template"
)

// NoticeTemplate holds the subject line and body template for a notice.
// Bodies are text/template strings rendered with NotificationData.Data.
type NoticeTemplate struct {
	Subject string
	Body    string
}

// Manager routes notices to a registered notifier after rendering the
// notice's template. Sends are best-effort from the caller's point of
// view: services log and continue when a security notice cannot be
// delivered.
type Manager struct {
	notifier Notifier
	registry map[NoticeType]NoticeTemplate
}

// NewManager creates a Manager sending through the given notifier.
func NewManager(notifier Notifier) *Manager {
	m := &Manager{
		notifier: notifier,
		registry: make(map[NoticeType]NoticeTemplate),
	}
	m.registerDefaults()
	return m
}

// Register adds or replaces the template for a notice type.
func (m *Manager) Register(noticeType NoticeType, tmpl NoticeTemplate) error {
	if noticeType == "" || tmpl.Body == "" {
		return fmt.Errorf("invalid input: notice type and body cannot be empty")
	}
	m.registry[noticeType] = tmpl
	return nil
}

// Send renders and delivers a notice. It fails if no template is
// registered for the notice type or rendering fails.
func (m *Manager) Send(noticeType NoticeType, notification NotificationData) error {
	tmpl, exists := m.registry[noticeType]
	if !exists {
		return fmt.Errorf("no template registered for notice type: %s", noticeType)
	}

	body, err := renderTemplate(tmpl.Body, notification.Data)
	if err != nil {
		return fmt.Errorf("failed to render notice %s: %w", noticeType, err)
	}

	return m.notifier.Send(noticeType, notification, tmpl.Subject, body)
}

func renderTemplate(text string, data map[string]string) (string, error) {
	t, err := template.New("notice").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (m *Manager) registerDefaults() {
	m.registry[WelcomeNotice] = NoticeTemplate{
		Subject: "Welcome to DocCollab",
		Body:    "Hi {{.Username}},\n\nYour DocCollab account is ready.\n",
	}
	m.registry[TwoFaEnabledNotice] = NoticeTemplate{
		Subject: "Two-factor authentication enabled",
		Body:    "Two-factor authentication was enabled on your DocCollab account. If this wasn't you, reset your password immediately.\n",
	}
	m.registry[TwoFaDisabledNotice] = NoticeTemplate{
		Subject: "Two-factor authentication disabled",
		Body:    "Two-factor authentication was disabled on your DocCollab account. If this wasn't you, reset your password immediately.\n",
	}
	m.registry[BackupCodeUsedNotice] = NoticeTemplate{
		Subject: "A backup code was used to sign in",
		Body:    "A backup code was used to sign in to your DocCollab account. You have {{.Remaining}} backup codes left.\n",
	}
}
