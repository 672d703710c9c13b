package db

import (
	"time"

	"github.com/nroussel/vitalog/internal/models"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	database *gorm.DB
	queue    *WriteQueue
}

func NewActivityRepository(database *gorm.DB, queue *WriteQueue) *ActivityRepository {
	return &ActivityRepository{database: database, queue: queue}
}

// Add appends a workout entry; the activity log is append-only.
func (repo *ActivityRepository) Add(entry models.ActivityEntry) <-chan error {
	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now()
	}
	if entry.Date == "" {
		entry.Date = models.DayKey(entry.StartedAt)
	}
	return repo.queue.Submit(func(tx *gorm.DB) error {
		if err := ensureUserExists(tx, entry.UserID); err != nil {
			return err
		}
		return tx.Create(&entry).Error
	}, Change{Entity: EntityActivityEntry, UserID: entry.UserID, Date: entry.Date})
}

func (repo *ActivityRepository) ForUser(userID string) ([]models.ActivityEntry, error) {
	entries := make([]models.ActivityEntry, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("started_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *ActivityRepository) ForDate(userID string, date string) ([]models.ActivityEntry, error) {
	entries := make([]models.ActivityEntry, 0)
	if err := repo.database.
		Where("user_id = ? AND date = ?", userID, date).
		Order("started_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *ActivityRepository) TotalCaloriesForDate(userID string, date string) (int, error) {
	var total int
	err := repo.database.Model(&models.ActivityEntry{}).
		Where("user_id = ? AND date = ?", userID, date).
		Select("COALESCE(SUM(calories_burned), 0)").
		Scan(&total).Error
	return total, err
}

func (repo *ActivityRepository) TotalDurationForDate(userID string, date string) (int, error) {
	var total int
	err := repo.database.Model(&models.ActivityEntry{}).
		Where("user_id = ? AND date = ?", userID, date).
		Select("COALESCE(SUM(duration_min), 0)").
		Scan(&total).Error
	return total, err
}

func (repo *ActivityRepository) TotalDistanceForDate(userID string, date string) (float64, error) {
	var total float64
	err := repo.database.Model(&models.ActivityEntry{}).
		Where("user_id = ? AND date = ?", userID, date).
		Select("COALESCE(SUM(distance_km), 0)").
		Scan(&total).Error
	return total, err
}
