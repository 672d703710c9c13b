package db

import (
	"context"
	"time"

	"github.com/nroussel/vitalog/internal/models"
	"gorm.io/gorm"
)

type DailyRecordRepository struct {
	database *gorm.DB
	queue    *WriteQueue
	feed     *ChangeFeed
}

func NewDailyRecordRepository(database *gorm.DB, queue *WriteQueue, feed *ChangeFeed) *DailyRecordRepository {
	return &DailyRecordRepository{database: database, queue: queue, feed: feed}
}

// upsertDailyRecord loads-or-creates the (user, date) row and applies the
// mutation to it. Runs inside the caller's transaction so a combined task
// stays atomic; the unique index backstops duplicates.
func upsertDailyRecord(tx *gorm.DB, userID string, date string, apply func(record *models.DailyRecord)) error {
	var record models.DailyRecord
	result := tx.Where("user_id = ? AND date = ?", userID, date).Limit(1).Find(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		record = models.DailyRecord{UserID: userID, Date: date}
		apply(&record)
		return tx.Create(&record).Error
	}
	apply(&record)
	return tx.Save(&record).Error
}

func (repo *DailyRecordRepository) submitUpsert(userID string, date string, apply func(record *models.DailyRecord)) <-chan error {
	return repo.queue.Submit(func(tx *gorm.DB) error {
		if err := ensureUserExists(tx, userID); err != nil {
			return err
		}
		return upsertDailyRecord(tx, userID, date, apply)
	}, Change{Entity: EntityDailyRecord, UserID: userID, Date: date})
}

// UpsertActivityTotals replaces the day's step/calorie/distance totals. The
// external source reports full-day aggregates, so values overwrite rather
// than accumulate.
func (repo *DailyRecordRepository) UpsertActivityTotals(userID string, date string, steps int, calories int, distanceKm float64) <-chan error {
	return repo.submitUpsert(userID, date, func(record *models.DailyRecord) {
		record.Steps = steps
		record.Calories = calories
		record.DistanceKm = distanceKm
	})
}

// UpsertFullReading persists a complete reading in one task, so steps,
// calories and sleep land together instead of racing independent upserts to
// the same row.
func (repo *DailyRecordRepository) UpsertFullReading(userID string, date string, steps int, calories int, distanceKm float64, sleepHours float64) <-chan error {
	return repo.submitUpsert(userID, date, func(record *models.DailyRecord) {
		record.Steps = steps
		record.Calories = calories
		record.DistanceKm = distanceKm
		record.SleepHours = sleepHours
	})
}

func (repo *DailyRecordRepository) SetSleepHours(userID string, date string, sleepHours float64) <-chan error {
	return repo.submitUpsert(userID, date, func(record *models.DailyRecord) {
		record.SleepHours = sleepHours
	})
}

func (repo *DailyRecordRepository) SetWaterGlasses(userID string, date string, waterGlasses int) <-chan error {
	return repo.submitUpsert(userID, date, func(record *models.DailyRecord) {
		record.WaterGlasses = waterGlasses
	})
}

func (repo *DailyRecordRepository) SetHeartRate(userID string, date string, heartRate int) <-chan error {
	return repo.submitUpsert(userID, date, func(record *models.DailyRecord) {
		record.HeartRate = heartRate
	})
}

func (repo *DailyRecordRepository) SetNutritionTotals(userID string, date string, calories int, protein float64, carbs float64, fat float64) <-chan error {
	return repo.submitUpsert(userID, date, func(record *models.DailyRecord) {
		record.ConsumedCalories = calories
		record.ProteinG = protein
		record.CarbsG = carbs
		record.FatG = fat
	})
}

func (repo *DailyRecordRepository) ForDate(userID string, date string) (models.DailyRecord, bool, error) {
	var record models.DailyRecord
	result := repo.database.Where("user_id = ? AND date = ?", userID, date).Limit(1).Find(&record)
	if result.Error != nil {
		return models.DailyRecord{}, false, result.Error
	}
	return record, result.RowsAffected > 0, nil
}

func (repo *DailyRecordRepository) Today(userID string, now time.Time) (models.DailyRecord, bool, error) {
	return repo.ForDate(userID, models.DayKey(now))
}

func (repo *DailyRecordRepository) BetweenDates(userID string, fromDate string, toDate string) ([]models.DailyRecord, error) {
	records := make([]models.DailyRecord, 0)
	if err := repo.database.
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, fromDate, toDate).
		Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *DailyRecordRepository) Recent(userID string, limit int) ([]models.DailyRecord, error) {
	records := make([]models.DailyRecord, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *DailyRecordRepository) AverageSteps(userID string, sinceDate string) (float64, error) {
	var average float64
	err := repo.database.Model(&models.DailyRecord{}).
		Where("user_id = ? AND date >= ?", userID, sinceDate).
		Select("COALESCE(AVG(steps), 0)").
		Scan(&average).Error
	return average, err
}

func (repo *DailyRecordRepository) TotalStepsBetween(userID string, fromDate string, toDate string) (int, error) {
	var total int
	err := repo.database.Model(&models.DailyRecord{}).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, fromDate, toDate).
		Select("COALESCE(SUM(steps), 0)").
		Scan(&total).Error
	return total, err
}

func (repo *DailyRecordRepository) AverageSleep(userID string, sinceDate string) (float64, error) {
	var average float64
	err := repo.database.Model(&models.DailyRecord{}).
		Where("user_id = ? AND date >= ?", userID, sinceDate).
		Select("COALESCE(AVG(sleep_hours), 0)").
		Scan(&average).Error
	return average, err
}

// WatchDate pushes the (user, date) record to the returned channel on every
// committed change, starting with its current state. Delivery never blocks
// the writer; a slow consumer just re-reads a fresher row next signal.
// The stream closes when ctx is cancelled.
func (repo *DailyRecordRepository) WatchDate(ctx context.Context, userID string, date string) <-chan models.DailyRecord {
	out := make(chan models.DailyRecord, 1)
	signals, unsubscribe := repo.feed.Subscribe(EntityDailyRecord, userID)

	emit := func() {
		record, found, err := repo.ForDate(userID, date)
		if err != nil || !found {
			return
		}
		select {
		case out <- record:
		default:
			// Drop stale value so the freshest state is always pending.
			select {
			case <-out:
			default:
			}
			out <- record
		}
	}

	go func() {
		defer close(out)
		defer unsubscribe()
		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-signals:
				if !ok {
					return
				}
				if change.Date == "" || change.Date == date {
					emit()
				}
			}
		}
	}()
	return out
}
