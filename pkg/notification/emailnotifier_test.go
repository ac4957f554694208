package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailNotifier(t *testing.T) {
	notifier, err := NewEmailNotifier(SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		TLS:      true,
		Username: "mailer",
		Password: "secret",
		From:     "noreply@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, notifier)
	assert.NotNil(t, notifier.client)
}

func TestEmailNotifierRequiresRecipient(t *testing.T) {
	notifier, err := NewEmailNotifier(SMTPConfig{
		Host: "smtp.example.com",
		Port: 25,
		From: "noreply@example.com",
	})
	require.NoError(t, err)

	err = notifier.Send(WelcomeNotice, NotificationData{}, "Welcome", "hello")
	assert.Error(t, err)
}
