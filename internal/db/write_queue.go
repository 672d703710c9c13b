package db

import (
	"log"
	"sync"

	"gorm.io/gorm"
)

// WriteTask is one unit of mutation work. It runs inside a single
// transaction, so steps that must observe each other's effects (ensure-user
// followed by the dependent insert) belong in one task, never two.
type WriteTask func(tx *gorm.DB) error

type queuedWrite struct {
	run     WriteTask
	changes []Change
	done    chan error
}

// WriteQueue is the only writer of record: every store mutation is funneled
// through its fixed worker pool so callers never block on storage I/O.
// Independently submitted tasks have no ordering guarantee between them.
type WriteQueue struct {
	database *gorm.DB
	feed     *ChangeFeed
	tasks    chan queuedWrite
	wg       sync.WaitGroup
	once     sync.Once
}

func NewWriteQueue(database *gorm.DB, feed *ChangeFeed, workers int) *WriteQueue {
	if workers <= 0 {
		workers = 2
	}
	queue := &WriteQueue{
		database: database,
		feed:     feed,
		tasks:    make(chan queuedWrite, 128),
	}
	for i := 0; i < workers; i++ {
		queue.wg.Add(1)
		go queue.worker()
	}
	return queue
}

func (queue *WriteQueue) worker() {
	defer queue.wg.Done()
	for task := range queue.tasks {
		err := queue.database.Transaction(task.run)
		if err != nil {
			log.Printf("writequeue: task failed: %v", err)
		} else if queue.feed != nil {
			for _, change := range task.changes {
				queue.feed.Publish(change)
			}
		}
		task.done <- err
		close(task.done)
	}
}

// Submit enqueues a task and returns immediately. The channel resolves with
// the transaction's result; callers may discard it. Changes are published to
// the feed only after the transaction commits.
func (queue *WriteQueue) Submit(task WriteTask, changes ...Change) <-chan error {
	done := make(chan error, 1)
	queue.tasks <- queuedWrite{run: task, changes: changes, done: done}
	return done
}

// SubmitWait enqueues a task and blocks until it completes.
func (queue *WriteQueue) SubmitWait(task WriteTask, changes ...Change) error {
	return <-queue.Submit(task, changes...)
}

// Close stops accepting tasks and waits for in-flight work to drain.
// Submitting after Close panics.
func (queue *WriteQueue) Close() {
	queue.once.Do(func() {
		close(queue.tasks)
		queue.wg.Wait()
	})
}
