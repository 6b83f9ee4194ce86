package slack

import "errors"

var (
	// ErrMissingWebhookURL is returned by New without a webhook URL
	ErrMissingWebhookURL = errors.New("slack: webhook url not configured")
	// ErrNotificationFailed is returned when the webhook request could not be delivered
	ErrNotificationFailed = errors.New("slack: findings notification not delivered")
	// ErrUnexpectedStatus is returned when the webhook rejects the payload
	ErrUnexpectedStatus = errors.New("slack: webhook rejected notification")
)
