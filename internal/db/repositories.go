package db

import "gorm.io/gorm"

// Repositories bundles the per-entity façades over one shared database
// handle, write queue and change feed.
type Repositories struct {
	Users        *UserRepository
	DailyRecords *DailyRecordRepository
	FoodLog      *FoodLogRepository
	Activities   *ActivityRepository
	State        *StateRepository

	Queue *WriteQueue
	Feed  *ChangeFeed
}

func NewRepositories(database *gorm.DB, writeWorkers int) *Repositories {
	feed := NewChangeFeed()
	queue := NewWriteQueue(database, feed, writeWorkers)
	return &Repositories{
		Users:        NewUserRepository(database, queue),
		DailyRecords: NewDailyRecordRepository(database, queue, feed),
		FoodLog:      NewFoodLogRepository(database, queue),
		Activities:   NewActivityRepository(database, queue),
		State:        NewStateRepository(database),
		Queue:        queue,
		Feed:         feed,
	}
}

// Close drains the write queue.
func (repos *Repositories) Close() {
	repos.Queue.Close()
}
