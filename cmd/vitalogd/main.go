package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nroussel/vitalog/internal/api"
	"github.com/nroussel/vitalog/internal/config"
	"github.com/nroussel/vitalog/internal/db"
	"github.com/nroussel/vitalog/internal/services"
)

func main() {
	cfg := config.Load()
	location := cfg.Location()
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	repos := db.NewRepositories(database, cfg.WriteWorkers)
	defer repos.Close()

	var notifier services.Notifier = services.LogNotifier{}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifier = services.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
	}

	syncService := services.NewSyncService(repos, nil, location)
	syncService.SetInterval(cfg.SyncInterval)
	nutritionService := services.NewNutritionService(repos, services.NewOpenFoodFactsClient())
	achievementService := services.NewAchievementService(repos, notifier, location)

	scheduler := services.NewClockScheduler()
	defer scheduler.CancelAll()
	reminderService := services.NewReminderService(repos, scheduler, notifier, "", location)
	reminderService.Start()

	handler := api.NewHandler(repos, syncService, nutritionService, reminderService, achievementService, cfg.SecretKey, location)

	app := fiber.New(fiber.Config{
		AppName:               "Vitalog",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Vitalog listening on http://0.0.0.0:%s (db: %s, tz: %s)", cfg.Port, cfg.DBPath, location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
