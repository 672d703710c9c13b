package db

import (
	"github.com/nroussel/vitalog/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
	queue    *WriteQueue
}

func NewUserRepository(database *gorm.DB, queue *WriteQueue) *UserRepository {
	return &UserRepository{database: database, queue: queue}
}

// ensureUserExists creates the stub user row if userID is unknown. It must
// run inside the same transaction as the dependent child write: two child
// writes for a brand-new user would otherwise both observe "no user" and
// race duplicate creation, or trip the foreign key.
func ensureUserExists(tx *gorm.DB, userID string) error {
	if userID == "" {
		return ErrNoUser
	}

	var matched int64
	if err := tx.Model(&models.User{}).Where("user_id = ?", userID).Count(&matched).Error; err != nil {
		return err
	}
	if matched > 0 {
		return nil
	}

	user := models.NewStubUser(userID)
	if err := tx.Create(&user).Error; err != nil {
		// Lost a cross-transaction race: the row exists now, which is all
		// the caller needs.
		var recheck int64
		if countErr := tx.Model(&models.User{}).Where("user_id = ?", userID).Count(&recheck).Error; countErr == nil && recheck > 0 {
			return nil
		}
		return err
	}
	return nil
}

// EnsureExists queues a standalone stub-user creation. Child-entity writes
// never call this; they embed ensureUserExists in their own task.
func (repo *UserRepository) EnsureExists(userID string) <-chan error {
	return repo.queue.Submit(func(tx *gorm.DB) error {
		return ensureUserExists(tx, userID)
	}, Change{Entity: EntityUser, UserID: userID})
}

func (repo *UserRepository) Create(user models.User) <-chan error {
	return repo.queue.Submit(func(tx *gorm.DB) error {
		return tx.Create(&user).Error
	}, Change{Entity: EntityUser, UserID: user.UserID})
}

func (repo *UserRepository) FindByID(userID string) (models.User, bool, error) {
	var user models.User
	result := repo.database.Where("user_id = ?", userID).Limit(1).Find(&user)
	if result.Error != nil {
		return models.User{}, false, result.Error
	}
	return user, result.RowsAffected > 0, nil
}

// First returns the earliest-registered user. Single-device deployments use
// it as the implicit account when no identifier was configured.
func (repo *UserRepository) First() (models.User, bool, error) {
	var user models.User
	result := repo.database.Order("created_at ASC").Limit(1).Find(&user)
	if result.Error != nil {
		return models.User{}, false, result.Error
	}
	return user, result.RowsAffected > 0, nil
}

func (repo *UserRepository) FindByEmail(email string) (models.User, bool, error) {
	var user models.User
	result := repo.database.Where("email = ?", email).Limit(1).Find(&user)
	if result.Error != nil {
		return models.User{}, false, result.Error
	}
	return user, result.RowsAffected > 0, nil
}

func (repo *UserRepository) UpdateProfile(userID string, age int, weightKg float64, heightCm float64) <-chan error {
	return repo.updateByID(userID, map[string]any{
		"age":       age,
		"weight_kg": weightKg,
		"height_cm": heightCm,
	})
}

func (repo *UserRepository) UpdateGoals(userID string, stepsGoal int, caloriesGoal int, sleepGoal float64) <-chan error {
	return repo.updateByID(userID, map[string]any{
		"daily_steps_goal":    stepsGoal,
		"daily_calories_goal": caloriesGoal,
		"daily_sleep_goal":    sleepGoal,
	})
}

func (repo *UserRepository) UpdateNotificationSettings(userID string, enabled bool) <-chan error {
	return repo.updateByID(userID, map[string]any{"notifications_enabled": enabled})
}

func (repo *UserRepository) UpdateWaterReminderSettings(userID string, enabled bool) <-chan error {
	return repo.updateByID(userID, map[string]any{"water_reminders_enabled": enabled})
}

func (repo *UserRepository) updateByID(userID string, updates map[string]any) <-chan error {
	return repo.queue.Submit(func(tx *gorm.DB) error {
		return tx.Model(&models.User{}).Where("user_id = ?", userID).Updates(updates).Error
	}, Change{Entity: EntityUser, UserID: userID})
}

// Delete removes the user; daily records, food and activity entries cascade.
func (repo *UserRepository) Delete(userID string) <-chan error {
	return repo.queue.Submit(func(tx *gorm.DB) error {
		return tx.Where("user_id = ?", userID).Delete(&models.User{}).Error
	}, Change{Entity: EntityUser, UserID: userID})
}
