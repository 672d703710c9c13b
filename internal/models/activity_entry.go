package models

import "time"

const (
	ActivityWalking = "walking"
	ActivityRunning = "running"
	ActivityCycling = "cycling"
	ActivityGym     = "gym"
)

// ActivityEntry is an append-only workout record.
type ActivityEntry struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"not null;index"`
	Date      string `gorm:"not null;index:idx_activity_user_date"`
	StartedAt time.Time
	EndedAt   time.Time

	ActivityType string `gorm:"not null"`
	Description  string

	DurationMin    int
	CaloriesBurned int
	DistanceKm     float64
	AvgHeartRate   int
}
