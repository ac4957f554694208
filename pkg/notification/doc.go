// Package notification sends security notices to users.
//
// The session service reports security-relevant account changes (2FA
// enabled or disabled, backup code consumed) through a Manager, which
// renders a registered template and hands it to a Notifier. The only
// production notifier is email over SMTP; tests use MockNotifier.
package notification
