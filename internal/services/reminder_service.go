package services

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/nroussel/vitalog/internal/db"
	"github.com/nroussel/vitalog/internal/models"
)

const (
	morningReminderHour   = 8
	eveningSummaryHour    = 20
	waterReminderFirst    = 9
	waterReminderLast     = 19
	waterReminderStepHrs  = 2
	activityReminderHour1 = 12
	activityReminderHour2 = 17
	activityReminderMin   = 30

	dayInterval = 24 * time.Hour
)

var morningMessages = []string{
	"Good morning! Start your day strong.",
	"New day, new health goals.",
	"Ready for an active day?",
	"Your goals are waiting, let's go!",
	"Don't forget to move today.",
}

var eveningMessages = []string{
	"How did your health day go?",
	"Time to review your day.",
	"Did you reach your goals today?",
	"Check your progress for the day.",
}

var waterMessages = []string{
	"Time to drink some water!",
	"Stay hydrated to stay sharp.",
	"Your body needs water, have a glass.",
	"A glass of water will do you good.",
	"Keep the water coming through the day.",
}

var activityMessages = []string{
	"Time to stretch your legs!",
	"A short walk adds up fast.",
	"How about a few more steps?",
	"Get up and move for a bit.",
}

// ReminderService runs the recurring health reminders: a morning nudge at
// 08:00, an evening summary at 20:00, hydration pings every two hours from
// 09:00 to 19:00 and activity nudges at 12:30 and 17:30. Each reminder lives
// on its own alarm key so a single failed registration does not take the rest
// down.
type ReminderService struct {
	repos     *db.Repositories
	scheduler AlarmScheduler
	notifier  Notifier
	userID    string
	location  *time.Location

	now func() time.Time
}

func NewReminderService(repos *db.Repositories, scheduler AlarmScheduler, notifier Notifier, userID string, location *time.Location) *ReminderService {
	if location == nil {
		location = time.Local
	}
	return &ReminderService{
		repos:     repos,
		scheduler: scheduler,
		notifier:  notifier,
		userID:    userID,
		location:  location,
		now:       time.Now,
	}
}

// Start arms the reminders according to the persisted settings.
func (service *ReminderService) Start() {
	enabled, err := service.repos.State.NotificationsEnabled()
	if err != nil {
		log.Printf("reminders: read notification settings failed: %v", err)
		enabled = true
	}
	if !enabled {
		log.Printf("reminders: notifications disabled, nothing scheduled")
		return
	}
	service.scheduleAll()
}

// EnableAll arms every reminder and persists the enabled flag.
func (service *ReminderService) EnableAll() error {
	service.scheduleAll()
	return service.repos.State.SetNotificationsEnabled(true)
}

// DisableAll cancels every armed reminder and persists the disabled flag.
func (service *ReminderService) DisableAll() error {
	service.scheduler.CancelAll()
	return service.repos.State.SetNotificationsEnabled(false)
}

func (service *ReminderService) scheduleAll() {
	now := service.now().In(service.location)

	if err := service.scheduler.Schedule("morning", NextFireAt(now, morningReminderHour, 0), dayInterval, service.fireMorning); err != nil {
		log.Printf("reminders: schedule morning failed: %v", err)
	}
	if err := service.scheduler.Schedule("evening", NextFireAt(now, eveningSummaryHour, 0), dayInterval, service.fireEvening); err != nil {
		log.Printf("reminders: schedule evening failed: %v", err)
	}
	for hour := waterReminderFirst; hour <= waterReminderLast; hour += waterReminderStepHrs {
		key := fmt.Sprintf("water:%d", hour)
		if err := service.scheduler.Schedule(key, NextFireAt(now, hour, 0), dayInterval, service.fireWater); err != nil {
			log.Printf("reminders: schedule %s failed: %v", key, err)
		}
	}
	for _, hour := range []int{activityReminderHour1, activityReminderHour2} {
		key := fmt.Sprintf("activity:%d", hour)
		if err := service.scheduler.Schedule(key, NextFireAt(now, hour, activityReminderMin), dayInterval, service.fireActivity); err != nil {
			log.Printf("reminders: schedule %s failed: %v", key, err)
		}
	}
}

func (service *ReminderService) fireMorning(time.Time) {
	message := morningMessages[rand.Intn(len(morningMessages))]
	if err := service.notifier.Notify("morning", "Good morning!", message); err != nil {
		log.Printf("reminders: send morning reminder failed: %v", err)
	}
}

// resolveUser returns the configured user, or the earliest-registered one
// when the service was started without an explicit account.
func (service *ReminderService) resolveUser() (models.User, bool) {
	if service.userID != "" {
		user, found, err := service.repos.Users.FindByID(service.userID)
		if err != nil {
			log.Printf("reminders: look up user failed: %v", err)
			return models.User{}, false
		}
		return user, found
	}
	user, found, err := service.repos.Users.First()
	if err != nil {
		log.Printf("reminders: look up user failed: %v", err)
		return models.User{}, false
	}
	return user, found
}

// fireEvening sends the daily summary built from today's record. A missing
// record still produces a summary with zeros.
func (service *ReminderService) fireEvening(firedAt time.Time) {
	message := eveningMessages[rand.Intn(len(eveningMessages))]

	user, haveUser := service.resolveUser()
	if !haveUser {
		user.UserID = service.userID
	}
	record, found, err := service.repos.DailyRecords.ForDate(user.UserID, models.DayKey(firedAt.In(service.location)))
	if err != nil {
		log.Printf("reminders: fetch evening summary failed: %v", err)
	} else if found {
		message = fmt.Sprintf("%s Today: %d steps, %d kcal burned, %d glasses of water.",
			message, record.Steps, record.Calories, record.WaterGlasses)
	}

	if err := service.notifier.Notify("evening", "Evening summary", message); err != nil {
		log.Printf("reminders: send evening summary failed: %v", err)
	}
}

func (service *ReminderService) fireWater(time.Time) {
	if user, found := service.resolveUser(); found && !user.WaterRemindersEnabled {
		return
	}

	message := waterMessages[rand.Intn(len(waterMessages))]
	if err := service.notifier.Notify("water", "Hydration reminder", message); err != nil {
		log.Printf("reminders: send water reminder failed: %v", err)
	}
}

func (service *ReminderService) fireActivity(time.Time) {
	message := activityMessages[rand.Intn(len(activityMessages))]
	if err := service.notifier.Notify("activity", "Activity reminder", message); err != nil {
		log.Printf("reminders: send activity reminder failed: %v", err)
	}
}
