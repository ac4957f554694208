package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SendRendersTemplate(t *testing.T) {
	mock := &MockNotifier{}
	m := NewManager(mock)

	err := m.Send(BackupCodeUsedNotice, NotificationData{
		To:   "alice@example.com",
		Data: map[string]string{"Remaining": "7"},
	})
	require.NoError(t, err)

	require.Len(t, mock.Sent, 1)
	assert.Equal(t, BackupCodeUsedNotice, mock.Sent[0].Type)
	assert.Equal(t, "alice@example.com", mock.Sent[0].To)
	assert.Contains(t, mock.Sent[0].Body, "7 backup codes left")
}

func TestManager_SendUnknownNotice(t *testing.T) {
	m := NewManager(&MockNotifier{})

	err := m.Send(NoticeType("no_such_notice"), NotificationData{To: "alice@example.com"})
	assert.Error(t, err)
}

func TestManager_RegisterReplaces(t *testing.T) {
	mock := &MockNotifier{}
	m := NewManager(mock)

	err := m.Register(WelcomeNotice, NoticeTemplate{
		Subject: "Hello",
		Body:    "Welcome {{.Username}}!",
	})
	require.NoError(t, err)

	err = m.Send(WelcomeNotice, NotificationData{
		To:   "bob@example.com",
		Data: map[string]string{"Username": "bob"},
	})
	require.NoError(t, err)

	require.Len(t, mock.Sent, 1)
	assert.Equal(t, "Welcome bob!", mock.Sent[0].Body)
}

func TestManager_RegisterRejectsEmpty(t *testing.T) {
	m := NewManager(&MockNotifier{})

	assert.Error(t, m.Register("", NoticeTemplate{Body: "x"}))
	assert.Error(t, m.Register(WelcomeNotice, NoticeTemplate{}))
}
