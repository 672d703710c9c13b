package services

import (
	"fmt"
	"log"
	"time"

	"github.com/nroussel/vitalog/internal/db"
	"github.com/nroussel/vitalog/internal/models"
)

// Goal types reported to the achievement service.
const (
	GoalSteps    = "steps"
	GoalCalories = "calories"
	GoalWater    = "water"
	GoalSleep    = "sleep"
)

// Achievement thresholds. Sleep rewards a healthy range, not a maximum.
const (
	stepsAchievementThreshold    = 10000
	caloriesAchievementThreshold = 2000
	waterAchievementThreshold    = 8
	sleepAchievementMin          = 7.0
	sleepAchievementMax          = 9.0
)

// AchievementService congratulates the user when a daily goal is reached.
// Each goal type fires at most once per user per day; the claim is persisted
// through the state store so restarts do not repeat notifications.
type AchievementService struct {
	repos    *db.Repositories
	notifier Notifier
	location *time.Location

	now func() time.Time
}

func NewAchievementService(repos *db.Repositories, notifier Notifier, location *time.Location) *AchievementService {
	if location == nil {
		location = time.Local
	}
	return &AchievementService{
		repos:    repos,
		notifier: notifier,
		location: location,
		now:      time.Now,
	}
}

// Report checks a goal value against its threshold and sends a congratulation
// if the goal is reached for the first time today. It returns whether a
// notification went out.
func (service *AchievementService) Report(userID string, goalType string, value float64) (bool, error) {
	if userID == "" {
		return false, db.ErrNoUser
	}
	if !goalReached(goalType, value) {
		return false, nil
	}

	day := models.DayKey(service.now().In(service.location))
	key := fmt.Sprintf("goal_notified:%s:%s:%s", goalType, userID, day)
	first, err := service.repos.State.CheckAndSet(key, day)
	if err != nil {
		return false, fmt.Errorf("claim achievement: %w", err)
	}
	if !first {
		return false, nil
	}

	if err := service.notifier.Notify("achievement", "Goal reached!", achievementMessage(goalType, value)); err != nil {
		log.Printf("achievements: send %s notification failed: %v", goalType, err)
		return true, err
	}
	return true, nil
}

// ReportDaily checks every goal carried by a daily record.
func (service *AchievementService) ReportDaily(userID string, record models.DailyRecord) {
	checks := []struct {
		goalType string
		value    float64
	}{
		{GoalSteps, float64(record.Steps)},
		{GoalCalories, float64(record.Calories)},
		{GoalWater, float64(record.WaterGlasses)},
		{GoalSleep, record.SleepHours},
	}
	for _, check := range checks {
		if _, err := service.Report(userID, check.goalType, check.value); err != nil {
			log.Printf("achievements: report %s failed: %v", check.goalType, err)
		}
	}
}

func goalReached(goalType string, value float64) bool {
	switch goalType {
	case GoalSteps:
		return value >= stepsAchievementThreshold
	case GoalCalories:
		return value >= caloriesAchievementThreshold
	case GoalWater:
		return value >= waterAchievementThreshold
	case GoalSleep:
		return value >= sleepAchievementMin && value <= sleepAchievementMax
	default:
		return false
	}
}

func achievementMessage(goalType string, value float64) string {
	switch goalType {
	case GoalSteps:
		return fmt.Sprintf("Congratulations! You reached %d steps today!", int(value))
	case GoalCalories:
		return fmt.Sprintf("Well done! You burned %d calories!", int(value))
	case GoalWater:
		return fmt.Sprintf("Excellent! You drank %d glasses of water!", int(value))
	case GoalSleep:
		return fmt.Sprintf("Perfect! You slept %.1f hours last night!", value)
	default:
		return "Keep it up, you are on the right track!"
	}
}
