package services

import (
	"sync"
	"time"
)

// AlarmScheduler registers repeating wall-clock alarms. Scheduling an
// existing key replaces the previous alarm; Cancel only prevents future
// occurrences, a callback already running finishes.
type AlarmScheduler interface {
	Schedule(key string, firstFire time.Time, interval time.Duration, fire func(firedAt time.Time)) error
	Cancel(key string)
	CancelAll()
}

// ClockScheduler is the in-process AlarmScheduler: one goroutine per alarm,
// armed with a timer to the first fire and a ticker thereafter.
type ClockScheduler struct {
	mu     sync.Mutex
	alarms map[string]chan struct{}
	now    func() time.Time
}

func NewClockScheduler() *ClockScheduler {
	return &ClockScheduler{
		alarms: make(map[string]chan struct{}),
		now:    time.Now,
	}
}

func (scheduler *ClockScheduler) Schedule(key string, firstFire time.Time, interval time.Duration, fire func(firedAt time.Time)) error {
	scheduler.mu.Lock()
	if stop, exists := scheduler.alarms[key]; exists {
		close(stop)
	}
	stop := make(chan struct{})
	scheduler.alarms[key] = stop
	scheduler.mu.Unlock()

	delay := firstFire.Sub(scheduler.now())
	if delay < 0 {
		delay = 0
	}

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-stop:
			return
		case firedAt := <-timer.C:
			fire(firedAt)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case firedAt := <-ticker.C:
				fire(firedAt)
			}
		}
	}()
	return nil
}

func (scheduler *ClockScheduler) Cancel(key string) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if stop, exists := scheduler.alarms[key]; exists {
		close(stop)
		delete(scheduler.alarms, key)
	}
}

func (scheduler *ClockScheduler) CancelAll() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	for key, stop := range scheduler.alarms {
		close(stop)
		delete(scheduler.alarms, key)
	}
}

// ScheduledKeys lists the currently armed alarm keys.
func (scheduler *ClockScheduler) ScheduledKeys() []string {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	keys := make([]string, 0, len(scheduler.alarms))
	for key := range scheduler.alarms {
		keys = append(keys, key)
	}
	return keys
}

// NextFireAt returns the next occurrence of hour:minute local time: today if
// still ahead, otherwise the same time tomorrow.
func NextFireAt(now time.Time, hour int, minute int) time.Time {
	fireAt := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !fireAt.After(now) {
		fireAt = fireAt.AddDate(0, 0, 1)
	}
	return fireAt
}
