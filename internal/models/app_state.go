package models

import "time"

// AppState is the small key-value area: last-sync timestamp, demo-mode flag,
// per-goal-per-day notification flags, notifications-enabled flag and the
// cached last external-source reading.
type AppState struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (AppState) TableName() string {
	return "app_state"
}
