package db

import (
	"time"

	"github.com/nroussel/vitalog/internal/models"
	"gorm.io/gorm"
)

type FoodLogRepository struct {
	database *gorm.DB
	queue    *WriteQueue
}

func NewFoodLogRepository(database *gorm.DB, queue *WriteQueue) *FoodLogRepository {
	return &FoodLogRepository{database: database, queue: queue}
}

// Add appends a food-log entry. The log is append-only: multiple entries per
// meal are expected and nothing deduplicates them.
func (repo *FoodLogRepository) Add(entry models.FoodEntry) <-chan error {
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now()
	}
	if entry.Date == "" {
		entry.Date = models.DayKey(entry.LoggedAt)
	}
	return repo.queue.Submit(func(tx *gorm.DB) error {
		if err := ensureUserExists(tx, entry.UserID); err != nil {
			return err
		}
		return tx.Create(&entry).Error
	}, Change{Entity: EntityFoodEntry, UserID: entry.UserID, Date: entry.Date})
}

// AddAndRollUp appends an entry and refreshes the day's nutrition totals on
// the daily record in the same transaction.
func (repo *FoodLogRepository) AddAndRollUp(entry models.FoodEntry) <-chan error {
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now()
	}
	if entry.Date == "" {
		entry.Date = models.DayKey(entry.LoggedAt)
	}
	return repo.queue.Submit(func(tx *gorm.DB) error {
		if err := ensureUserExists(tx, entry.UserID); err != nil {
			return err
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return rollUpNutrition(tx, entry.UserID, entry.Date)
	},
		Change{Entity: EntityFoodEntry, UserID: entry.UserID, Date: entry.Date},
		Change{Entity: EntityDailyRecord, UserID: entry.UserID, Date: entry.Date},
	)
}

// rollUpNutrition recomputes the day's consumed totals from the food log and
// stores them on the daily record.
func rollUpNutrition(tx *gorm.DB, userID string, date string) error {
	entries := make([]models.FoodEntry, 0)
	if err := tx.Where("user_id = ? AND date = ?", userID, date).Find(&entries).Error; err != nil {
		return err
	}

	var calories, protein, carbs, fat float64
	for _, entry := range entries {
		entryCalories, entryProtein, entryCarbs, entryFat := entry.ConsumedMacros()
		calories += entryCalories
		protein += entryProtein
		carbs += entryCarbs
		fat += entryFat
	}

	return upsertDailyRecord(tx, userID, date, func(record *models.DailyRecord) {
		record.ConsumedCalories = int(calories)
		record.ProteinG = protein
		record.CarbsG = carbs
		record.FatG = fat
	})
}

// RollUpDate refreshes the daily record's nutrition totals for one day.
func (repo *FoodLogRepository) RollUpDate(userID string, date string) <-chan error {
	return repo.queue.Submit(func(tx *gorm.DB) error {
		if err := ensureUserExists(tx, userID); err != nil {
			return err
		}
		return rollUpNutrition(tx, userID, date)
	}, Change{Entity: EntityDailyRecord, UserID: userID, Date: date})
}

func (repo *FoodLogRepository) ForDate(userID string, date string) ([]models.FoodEntry, error) {
	entries := make([]models.FoodEntry, 0)
	if err := repo.database.
		Where("user_id = ? AND date = ?", userID, date).
		Order("logged_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// TotalsForDate sums consumed macros over the day's entries.
func (repo *FoodLogRepository) TotalsForDate(userID string, date string) (calories, protein, carbs, fat float64, err error) {
	entries, err := repo.ForDate(userID, date)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	for _, entry := range entries {
		entryCalories, entryProtein, entryCarbs, entryFat := entry.ConsumedMacros()
		calories += entryCalories
		protein += entryProtein
		carbs += entryCarbs
		fat += entryFat
	}
	return calories, protein, carbs, fat, nil
}
