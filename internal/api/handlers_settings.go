package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nroussel/vitalog/internal/services"
)

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	user, found, err := handler.repos.Users.FindByID(currentUserID(c))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load profile")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "account not found")
	}

	return c.JSON(fiber.Map{
		"user_id":                 user.UserID,
		"email":                   user.Email,
		"display_name":            user.DisplayName,
		"auth_provider":           user.AuthProvider,
		"age":                     user.Age,
		"weight_kg":               user.WeightKg,
		"height_cm":               user.HeightCm,
		"notifications_enabled":   user.NotificationsEnabled,
		"water_reminders_enabled": user.WaterRemindersEnabled,
	})
}

type profileInput struct {
	Age      int     `json:"age"`
	WeightKg float64 `json:"weight_kg"`
	HeightCm float64 `json:"height_cm"`
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	var input profileInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.Age < 0 || input.Age > 130 || input.WeightKg < 0 || input.HeightCm < 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if err := <-handler.repos.Users.UpdateProfile(currentUserID(c), input.Age, input.WeightKg, input.HeightCm); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save profile")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// GetGoals returns the stored goals next to profile-derived suggestions.
func (handler *Handler) GetGoals(c *fiber.Ctx) error {
	user, found, err := handler.repos.Users.FindByID(currentUserID(c))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load goals")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "account not found")
	}

	return c.JSON(fiber.Map{
		"daily_steps_goal":    user.DailyStepsGoal,
		"daily_calories_goal": user.DailyCaloriesGoal,
		"daily_sleep_goal":    user.DailySleepGoal,
		"suggested": fiber.Map{
			"steps_goal":    services.PersonalizedStepsGoal(user),
			"calories_goal": services.PersonalizedCaloriesGoal(user),
		},
	})
}

type goalsInput struct {
	StepsGoal    int     `json:"daily_steps_goal"`
	CaloriesGoal int     `json:"daily_calories_goal"`
	SleepGoal    float64 `json:"daily_sleep_goal"`
}

func (handler *Handler) UpdateGoals(c *fiber.Ctx) error {
	var input goalsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.StepsGoal <= 0 || input.CaloriesGoal <= 0 || input.SleepGoal <= 0 || input.SleepGoal > 24 {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if err := <-handler.repos.Users.UpdateGoals(currentUserID(c), input.StepsGoal, input.CaloriesGoal, input.SleepGoal); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save goals")
	}
	return c.JSON(fiber.Map{"ok": true})
}

type toggleInput struct {
	Enabled bool `json:"enabled"`
}

// UpdateNotificationSettings flips the global reminder switch: the per-user
// flag, the app-level state, and the armed alarms all move together.
func (handler *Handler) UpdateNotificationSettings(c *fiber.Ctx) error {
	var input toggleInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	userID := currentUserID(c)
	if err := <-handler.repos.Users.UpdateNotificationSettings(userID, input.Enabled); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save settings")
	}

	if handler.reminders != nil {
		var err error
		if input.Enabled {
			err = handler.reminders.EnableAll()
		} else {
			err = handler.reminders.DisableAll()
		}
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to reschedule reminders")
		}
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) UpdateWaterReminderSettings(c *fiber.Ctx) error {
	var input toggleInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if err := <-handler.repos.Users.UpdateWaterReminderSettings(currentUserID(c), input.Enabled); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save settings")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	if err := <-handler.repos.Users.Delete(currentUserID(c)); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete account")
	}
	return c.JSON(fiber.Map{"ok": true})
}
