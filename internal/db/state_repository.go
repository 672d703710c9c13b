package db

import (
	"strconv"
	"time"

	"github.com/nroussel/vitalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Well-known state keys.
const (
	StateKeyLastSyncTime         = "last_sync_time"
	StateKeyDemoMode             = "demo_mode"
	StateKeyNotificationsEnabled = "notifications_enabled"
	StateKeyLastReading          = "last_reading"
)

// StateRepository is the small key-value area beside the entity tables. Its
// operations run synchronously in their own short transactions: the gate
// values it holds (sync throttle, goal flags) must be read-then-written as a
// unit, which is exactly what a queued task could not give two near
// simultaneous callers.
type StateRepository struct {
	database *gorm.DB
}

func NewStateRepository(database *gorm.DB) *StateRepository {
	return &StateRepository{database: database}
}

func (repo *StateRepository) Get(key string) (string, bool, error) {
	var row models.AppState
	result := repo.database.Where("key = ?", key).Limit(1).Find(&row)
	if result.Error != nil {
		return "", false, result.Error
	}
	return row.Value, result.RowsAffected > 0, nil
}

func (repo *StateRepository) Set(key string, value string) error {
	row := models.AppState{Key: key, Value: value, UpdatedAt: time.Now()}
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (repo *StateRepository) Delete(key string) error {
	return repo.database.Where("key = ?", key).Delete(&models.AppState{}).Error
}

// CheckAndSet stores value under key only if the key is absent, reporting
// whether this call won. The insert relies on the primary key, so two
// concurrent callers cannot both win.
func (repo *StateRepository) CheckAndSet(key string, value string) (bool, error) {
	result := repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&models.AppState{Key: key, Value: value, UpdatedAt: time.Now()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *StateRepository) LastSyncTime() (time.Time, bool, error) {
	raw, found, err := repo.Get(StateKeyLastSyncTime)
	if err != nil || !found {
		return time.Time{}, false, err
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(millis), true, nil
}

func (repo *StateRepository) SetLastSyncTime(t time.Time) error {
	return repo.Set(StateKeyLastSyncTime, strconv.FormatInt(t.UnixMilli(), 10))
}

// AdvanceSyncGate reports whether at least minInterval has elapsed since the
// last recorded sync and, if so, advances the timestamp to now — in one
// transaction, so simultaneous automatic triggers cannot both pass.
func (repo *StateRepository) AdvanceSyncGate(now time.Time, minInterval time.Duration) (bool, error) {
	passed := false
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		var row models.AppState
		result := tx.Where("key = ?", StateKeyLastSyncTime).Limit(1).Find(&row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			if millis, parseErr := strconv.ParseInt(row.Value, 10, 64); parseErr == nil {
				if now.Sub(time.UnixMilli(millis)) < minInterval {
					return nil
				}
			}
		}
		passed = true
		stamp := models.AppState{
			Key:       StateKeyLastSyncTime,
			Value:     strconv.FormatInt(now.UnixMilli(), 10),
			UpdatedAt: now,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&stamp).Error
	})
	return passed, err
}

func (repo *StateRepository) DemoMode() (bool, error) {
	raw, found, err := repo.Get(StateKeyDemoMode)
	if err != nil || !found {
		return false, err
	}
	return raw == "true", nil
}

func (repo *StateRepository) SetDemoMode(enabled bool) error {
	return repo.Set(StateKeyDemoMode, strconv.FormatBool(enabled))
}

func (repo *StateRepository) NotificationsEnabled() (bool, error) {
	raw, found, err := repo.Get(StateKeyNotificationsEnabled)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}
	return raw == "true", nil
}

func (repo *StateRepository) SetNotificationsEnabled(enabled bool) error {
	return repo.Set(StateKeyNotificationsEnabled, strconv.FormatBool(enabled))
}

// CacheLastReading stores the most recent external-source reading for
// offline display.
func (repo *StateRepository) CacheLastReading(encoded string) error {
	return repo.Set(StateKeyLastReading, encoded)
}

func (repo *StateRepository) LastReading() (string, bool, error) {
	return repo.Get(StateKeyLastReading)
}
