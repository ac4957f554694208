package notification

// NoticeType identifies a kind of notice sent to a user.
type NoticeType string

const (
	WelcomeNotice        NoticeType = "welcome"
	TwoFaEnabledNotice   NoticeType = "twofa_enabled"
	TwoFaDisabledNotice  NoticeType = "twofa_disabled"
	BackupCodeUsedNotice NoticeType = "backup_code_used"
)

// NotificationData carries the recipient and template data for one notice.
type NotificationData struct {
	To   string
	Data map[string]string
}

// Notifier sends a rendered notice through one delivery system.
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, subject, body string) error
}
