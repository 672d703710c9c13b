package services

import "log"

// Notifier delivers a user-facing notification. The id keys the notification
// channel on the delivery side, not the recipient.
type Notifier interface {
	Notify(id string, title string, message string) error
}

// LogNotifier writes notifications to the process log. It is the fallback
// when no Telegram credentials are configured.
type LogNotifier struct{}

func (LogNotifier) Notify(id string, title string, message string) error {
	log.Printf("notify [%s] %s: %s", id, title, message)
	return nil
}
