package notification

// MockNotifier records notices instead of delivering them, for tests.
type MockNotifier struct {
	Sent []SentNotice
}

// SentNotice is one recorded delivery.
type SentNotice struct {
	Type    NoticeType
	To      string
	Subject string
	Body    string
}

func (m *MockNotifier) Send(noticeType NoticeType, notification NotificationData, subject, body string) error {
	m.Sent = append(m.Sent, SentNotice{
		Type:    noticeType,
		To:      notification.To,
		Subject: subject,
		Body:    body,
	})
	return nil
}
