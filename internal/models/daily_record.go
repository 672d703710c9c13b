package models

import "time"

// DayLayout is the calendar-date key format shared by all daily tables.
const DayLayout = "2006-01-02"

// DayKey formats a moment as the calendar date it falls on in its location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// DailyRecord is the single per-user-per-day aggregate of activity, sleep,
// hydration and nutrition metrics. At most one row exists per (user, date);
// later writes mutate fields in place.
type DailyRecord struct {
	ID     uint   `gorm:"primaryKey"`
	UserID string `gorm:"not null;uniqueIndex:uidx_daily_user_date"`
	Date   string `gorm:"not null;uniqueIndex:uidx_daily_user_date"`

	Steps      int
	Calories   int
	DistanceKm float64
	HeartRate  int
	SleepHours float64

	ConsumedCalories int
	ProteinG         float64
	CarbsG           float64
	FatG             float64

	WaterGlasses int

	CreatedAt time.Time
	UpdatedAt time.Time
}
