package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nroussel/vitalog/internal/models"
)

type activityInput struct {
	ActivityType   string  `json:"activity_type"`
	Description    string  `json:"description"`
	DurationMin    int     `json:"duration_min"`
	CaloriesBurned int     `json:"calories_burned"`
	DistanceKm     float64 `json:"distance_km"`
	AvgHeartRate   int     `json:"avg_heart_rate"`
}

func (handler *Handler) AddActivity(c *fiber.Ctx) error {
	var input activityInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.ActivityType = strings.TrimSpace(input.ActivityType)
	if input.ActivityType == "" || input.DurationMin <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	userID := currentUserID(c)
	now := time.Now().In(handler.location)
	entry := models.ActivityEntry{
		UserID:         userID,
		Date:           models.DayKey(now),
		StartedAt:      now.Add(-time.Duration(input.DurationMin) * time.Minute),
		EndedAt:        now,
		ActivityType:   input.ActivityType,
		Description:    input.Description,
		DurationMin:    input.DurationMin,
		CaloriesBurned: input.CaloriesBurned,
		DistanceKm:     input.DistanceKm,
		AvgHeartRate:   input.AvgHeartRate,
	}
	if err := <-handler.repos.Activities.Add(entry); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save activity")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

func (handler *Handler) GetActivities(c *fiber.Ctx) error {
	userID := currentUserID(c)
	date := dateParam(c, "date", handler.today())
	if date == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	entries, err := handler.repos.Activities.ForDate(userID, date)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load activities")
	}
	totalCalories, err := handler.repos.Activities.TotalCaloriesForDate(userID, date)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to total activities")
	}
	totalDuration, err := handler.repos.Activities.TotalDurationForDate(userID, date)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to total activities")
	}

	views := make([]activityEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, viewOfActivityEntry(entry))
	}
	return c.JSON(fiber.Map{
		"entries": views,
		"totals": fiber.Map{
			"calories_burned": totalCalories,
			"duration_min":    totalDuration,
		},
	})
}
