package api

import (
	"time"

	"github.com/nroussel/vitalog/internal/db"
	"github.com/nroussel/vitalog/internal/services"
)

type Handler struct {
	repos        *db.Repositories
	syncService  *services.SyncService
	nutrition    *services.NutritionService
	reminders    *services.ReminderService
	achievements *services.AchievementService
	secretKey    []byte
	location     *time.Location
}

const authTokenTTL = 7 * 24 * time.Hour

func NewHandler(
	repos *db.Repositories,
	syncService *services.SyncService,
	nutrition *services.NutritionService,
	reminders *services.ReminderService,
	achievements *services.AchievementService,
	secretKey string,
	location *time.Location,
) *Handler {
	if location == nil {
		location = time.Local
	}
	return &Handler{
		repos:        repos,
		syncService:  syncService,
		nutrition:    nutrition,
		reminders:    reminders,
		achievements: achievements,
		secretKey:    []byte(secretKey),
		location:     location,
	}
}

func (handler *Handler) today() string {
	return time.Now().In(handler.location).Format("2006-01-02")
}
