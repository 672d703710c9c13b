package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)

	records := api.Group("/records", handler.AuthRequired)
	records.Get("/today", handler.GetToday)
	records.Get("", handler.GetRecords)
	records.Post("/water", handler.UpdateWater)
	records.Post("/sleep", handler.UpdateSleep)
	records.Post("/heart-rate", handler.UpdateHeartRate)

	sync := api.Group("/sync", handler.AuthRequired)
	sync.Post("", handler.Sync)
	sync.Post("/quick", handler.QuickSync)
	sync.Post("/auto", handler.AutoSync)

	food := api.Group("/food", handler.AuthRequired)
	food.Get("", handler.GetFoodLog)
	food.Post("", handler.LogFood)
	food.Post("/scan", handler.ScanFood)

	activities := api.Group("/activities", handler.AuthRequired)
	activities.Get("", handler.GetActivities)
	activities.Post("", handler.AddActivity)

	stats := api.Group("/stats", handler.AuthRequired)
	stats.Get("/overview", handler.GetStatsOverview)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Get("/profile", handler.GetProfile)
	settings.Post("/profile", handler.UpdateProfile)
	settings.Get("/goals", handler.GetGoals)
	settings.Post("/goals", handler.UpdateGoals)
	settings.Post("/notifications", handler.UpdateNotificationSettings)
	settings.Post("/water-reminders", handler.UpdateWaterReminderSettings)
	settings.Delete("/account", handler.DeleteAccount)
}
