package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nroussel/vitalog/internal/services"
)

func (handler *Handler) GetToday(c *fiber.Ctx) error {
	userID := currentUserID(c)
	record, _, err := handler.repos.DailyRecords.Today(userID, time.Now().In(handler.location))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load today's record")
	}
	record.Date = handler.today()
	return c.JSON(viewOfDailyRecord(record))
}

func (handler *Handler) GetRecords(c *fiber.Ctx) error {
	userID := currentUserID(c)

	toDate := dateParam(c, "to", handler.today())
	fromDate := dateParam(c, "from", handler.today())
	if fromDate == "" || toDate == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid date range")
	}

	records, err := handler.repos.DailyRecords.BetweenDates(userID, fromDate, toDate)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load records")
	}
	return c.JSON(fiber.Map{"records": viewsOfDailyRecords(records)})
}

type waterInput struct {
	Glasses int `json:"glasses"`
}

func (handler *Handler) UpdateWater(c *fiber.Ctx) error {
	var input waterInput
	if err := c.BodyParser(&input); err != nil || input.Glasses < 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	userID := currentUserID(c)
	if err := <-handler.syncService.UpdateWater(userID, input.Glasses); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save water intake")
	}
	// Achievements are best-effort, the write already landed.
	if _, err := handler.achievements.Report(userID, services.GoalWater, float64(input.Glasses)); err != nil {
		log.Printf("api: water achievement check failed: %v", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

type sleepInput struct {
	SleepHours float64 `json:"sleep_hours"`
}

func (handler *Handler) UpdateSleep(c *fiber.Ctx) error {
	var input sleepInput
	if err := c.BodyParser(&input); err != nil || input.SleepHours < 0 || input.SleepHours > 24 {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	userID := currentUserID(c)
	if err := <-handler.syncService.UpdateSleep(userID, input.SleepHours); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save sleep")
	}
	if _, err := handler.achievements.Report(userID, services.GoalSleep, input.SleepHours); err != nil {
		log.Printf("api: sleep achievement check failed: %v", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

type heartRateInput struct {
	HeartRate int `json:"heart_rate"`
}

func (handler *Handler) UpdateHeartRate(c *fiber.Ctx) error {
	var input heartRateInput
	if err := c.BodyParser(&input); err != nil || input.HeartRate <= 0 || input.HeartRate > 300 {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	userID := currentUserID(c)
	if err := <-handler.syncService.UpdateHeartRate(userID, input.HeartRate); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save heart rate")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) GetStatsOverview(c *fiber.Ctx) error {
	userID := currentUserID(c)

	since := time.Now().In(handler.location).AddDate(0, 0, -6).Format("2006-01-02")
	averageSteps, err := handler.repos.DailyRecords.AverageSteps(userID, since)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to compute stats")
	}
	averageSleep, err := handler.repos.DailyRecords.AverageSleep(userID, since)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to compute stats")
	}
	totalSteps, err := handler.repos.DailyRecords.TotalStepsBetween(userID, since, handler.today())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to compute stats")
	}

	return c.JSON(fiber.Map{
		"average_steps_7d": averageSteps,
		"average_sleep_7d": averageSleep,
		"total_steps_7d":   totalSteps,
	})
}
