package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nroussel/vitalog/internal/models"
	"github.com/nroussel/vitalog/internal/services"
)

func (handler *Handler) Sync(c *fiber.Ctx) error {
	return handler.runSync(c, false)
}

func (handler *Handler) QuickSync(c *fiber.Ctx) error {
	return handler.runSync(c, true)
}

func (handler *Handler) runSync(c *fiber.Ctx, quick bool) error {
	userID := currentUserID(c)

	var err error
	if quick {
		err = handler.syncService.QuickSync(c.Context(), userID, handler.syncListener(userID))
	} else {
		err = handler.syncService.FullSync(c.Context(), userID, handler.syncListener(userID))
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "sync failed")
	}

	record, _, loadErr := handler.repos.DailyRecords.Today(userID, time.Now().In(handler.location))
	if loadErr != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load synced record")
	}
	record.Date = handler.today()
	return c.JSON(viewOfDailyRecord(record))
}

// AutoSync runs a throttled quick sync; when the gate has not elapsed yet the
// call reports ran=false and does nothing.
func (handler *Handler) AutoSync(c *fiber.Ctx) error {
	userID := currentUserID(c)
	ran, err := handler.syncService.AutoSync(c.Context(), userID, handler.syncListener(userID))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "sync failed")
	}
	return c.JSON(fiber.Map{"ran": ran})
}

// syncListener wires goal checks behind each completed sync.
func (handler *Handler) syncListener(userID string) services.SyncListener {
	return services.SyncListener{
		OnCompleted: func(record models.DailyRecord) {
			handler.achievements.ReportDaily(userID, record)
		},
		OnError: func(err error) {
			log.Printf("api: sync for user %s failed: %v", userID, err)
		},
	}
}
