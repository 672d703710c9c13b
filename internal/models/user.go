package models

import "time"

const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
	AuthProviderDemo   = "demo"
)

const (
	DefaultStepsGoal    = 10000
	DefaultCaloriesGoal = 2000
	DefaultSleepGoal    = 8.0
)

// StubDisplayName is assigned to users created lazily by a child-entity
// write before the account was ever registered explicitly.
const StubDisplayName = "User"

type User struct {
	UserID                string `gorm:"primaryKey"`
	Email                 string `gorm:"index"`
	DisplayName           string `gorm:"not null"`
	AuthProvider          string `gorm:"not null;default:email"`
	PasswordHash          string
	Age                   int
	WeightKg              float64
	HeightCm              float64
	DailyStepsGoal        int     `gorm:"not null;default:10000"`
	DailyCaloriesGoal     int     `gorm:"not null;default:2000"`
	DailySleepGoal        float64 `gorm:"not null;default:8"`
	NotificationsEnabled  bool    `gorm:"not null;default:true"`
	WaterRemindersEnabled bool    `gorm:"not null;default:true"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewStubUser builds the minimal row ensure-user-exists inserts when a
// child record references an unknown identifier.
func NewStubUser(userID string) User {
	return User{
		UserID:                userID,
		Email:                 "",
		DisplayName:           StubDisplayName,
		AuthProvider:          AuthProviderDemo,
		DailyStepsGoal:        DefaultStepsGoal,
		DailyCaloriesGoal:     DefaultCaloriesGoal,
		DailySleepGoal:        DefaultSleepGoal,
		NotificationsEnabled:  true,
		WaterRemindersEnabled: true,
	}
}
