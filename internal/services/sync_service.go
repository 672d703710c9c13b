package services

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"time"

	"github.com/nroussel/vitalog/internal/db"
	"github.com/nroussel/vitalog/internal/models"
)

// DistancePerStepKm approximates distance when the source reports none
// (average 0.7m per step).
const DistancePerStepKm = 0.0007

// DefaultSyncInterval is the minimum gap between automatic syncs. Manual
// syncs ignore it.
const DefaultSyncInterval = 30 * time.Minute

// Simulated-mode bounds.
const (
	simStepsMin     = 5000
	simStepsSpan    = 5000
	simCaloriesMin  = 1500
	simCaloriesSpan = 500
	simSleepMin     = 6.5
	simSleepSpan    = 3.0
)

// SyncListener receives per-category callbacks as data becomes available.
// Nil hooks are skipped.
type SyncListener struct {
	OnSteps     func(steps int)
	OnCalories  func(calories int)
	OnSleep     func(sleepHours float64)
	OnCompleted func(record models.DailyRecord)
	OnError     func(err error)
}

func (listener SyncListener) fireSteps(steps int) {
	if listener.OnSteps != nil {
		listener.OnSteps(steps)
	}
}

func (listener SyncListener) fireCalories(calories int) {
	if listener.OnCalories != nil {
		listener.OnCalories(calories)
	}
}

func (listener SyncListener) fireSleep(sleepHours float64) {
	if listener.OnSleep != nil {
		listener.OnSleep(sleepHours)
	}
}

func (listener SyncListener) fireCompleted(record models.DailyRecord) {
	if listener.OnCompleted != nil {
		listener.OnCompleted(record)
	}
}

func (listener SyncListener) fireError(err error) {
	if listener.OnError != nil {
		listener.OnError(err)
	}
}

// Reading is the cached last-known external-source result, kept in the
// key-value area for offline display.
type Reading struct {
	Date       string  `json:"date"`
	Steps      int     `json:"steps"`
	Calories   int     `json:"calories"`
	DistanceKm float64 `json:"distance_km"`
	SleepHours float64 `json:"sleep_hours,omitempty"`
	Simulated  bool    `json:"simulated"`
}

// SyncService reconciles today's daily record with the external fitness
// source, falling back to simulated data whenever the source is unusable or
// a fetch fails. From the caller's point of view a sync always completes
// with some data; the one hard error is a missing application user.
type SyncService struct {
	repos    *db.Repositories
	source   FitnessSource
	location *time.Location
	interval time.Duration

	now func() time.Time
}

func NewSyncService(repos *db.Repositories, source FitnessSource, location *time.Location) *SyncService {
	if location == nil {
		location = time.Local
	}
	return &SyncService{
		repos:    repos,
		source:   source,
		location: location,
		interval: DefaultSyncInterval,
		now:      time.Now,
	}
}

// SetInterval overrides the minimum spacing AutoSync enforces between runs.
func (service *SyncService) SetInterval(interval time.Duration) {
	if interval > 0 {
		service.interval = interval
	}
}

func (service *SyncService) today() string {
	return models.DayKey(service.now().In(service.location))
}

// sourceUsable gates real-mode sync: the source must exist, be signed in
// with scopes granted, and demo mode must be off.
func (service *SyncService) sourceUsable() bool {
	if service.source == nil || !service.source.Available() {
		return false
	}
	demo, err := service.repos.State.DemoMode()
	if err != nil {
		log.Printf("sync: read demo flag: %v", err)
	}
	return !demo
}

// FullSync fetches steps, then calories, persists them together, then sleep
// independently, then refreshes nutrition totals. Returns db.ErrNoUser when
// there is no application user; every external failure is absorbed by the
// simulated fallback.
func (service *SyncService) FullSync(ctx context.Context, userID string, listener SyncListener) error {
	return service.sync(ctx, userID, listener, true)
}

// QuickSync fetches only steps and calories, skipping sleep.
func (service *SyncService) QuickSync(ctx context.Context, userID string, listener SyncListener) error {
	return service.sync(ctx, userID, listener, false)
}

func (service *SyncService) sync(ctx context.Context, userID string, listener SyncListener, includeSleep bool) error {
	if userID == "" {
		listener.fireError(db.ErrNoUser)
		return db.ErrNoUser
	}

	date := service.today()
	if !service.sourceUsable() {
		return service.simulate(userID, date, listener, includeSleep)
	}

	steps, err := service.source.TodaySteps(ctx)
	if err != nil {
		log.Printf("sync: steps fetch failed, falling back to simulated data: %v", err)
		return service.simulate(userID, date, listener, includeSleep)
	}
	calories, err := service.source.TodayCalories(ctx)
	if err != nil {
		log.Printf("sync: calories fetch failed, falling back to simulated data: %v", err)
		return service.simulate(userID, date, listener, includeSleep)
	}

	distance := float64(steps) * DistancePerStepKm
	if err := <-service.repos.DailyRecords.UpsertActivityTotals(userID, date, steps, calories, distance); err != nil {
		listener.fireError(err)
		return err
	}
	listener.fireSteps(steps)
	listener.fireCalories(calories)

	reading := Reading{Date: date, Steps: steps, Calories: calories, DistanceKm: distance}

	if includeSleep {
		sleepHours, sleepErr := service.source.SleepHours(ctx)
		if sleepErr != nil {
			// Sleep is independent: a miss leaves the record untouched.
			log.Printf("sync: sleep fetch failed: %v", sleepErr)
		} else {
			if err := <-service.repos.DailyRecords.SetSleepHours(userID, date, sleepHours); err != nil {
				listener.fireError(err)
				return err
			}
			reading.SleepHours = sleepHours
			listener.fireSleep(sleepHours)
		}

		if err := <-service.repos.FoodLog.RollUpDate(userID, date); err != nil {
			log.Printf("sync: nutrition rollup failed: %v", err)
		}
	}

	service.finish(userID, date, reading, listener)
	return nil
}

// simulate produces a plausible reading and persists it exactly as a real
// sync would. It is a fallback, not an error path. The top-level rand
// functions are safe under concurrent syncs.
func (service *SyncService) simulate(userID string, date string, listener SyncListener, includeSleep bool) error {
	steps := simStepsMin + rand.Intn(simStepsSpan)
	calories := simCaloriesMin + rand.Intn(simCaloriesSpan)
	sleepHours := simSleepMin + rand.Float64()*simSleepSpan
	distance := float64(steps) * DistancePerStepKm

	if err := <-service.repos.DailyRecords.UpsertFullReading(userID, date, steps, calories, distance, sleepHours); err != nil {
		listener.fireError(err)
		return err
	}

	listener.fireSteps(steps)
	listener.fireCalories(calories)
	// Simulated data always carries sleep, but a quick sync promised its
	// caller no sleep callback.
	if includeSleep {
		listener.fireSleep(sleepHours)
	}

	service.finish(userID, date, Reading{
		Date:       date,
		Steps:      steps,
		Calories:   calories,
		DistanceKm: distance,
		SleepHours: sleepHours,
		Simulated:  true,
	}, listener)
	return nil
}

func (service *SyncService) finish(userID string, date string, reading Reading, listener SyncListener) {
	if encoded, err := json.Marshal(reading); err == nil {
		if err := service.repos.State.CacheLastReading(string(encoded)); err != nil {
			log.Printf("sync: cache last reading: %v", err)
		}
	}
	if err := service.repos.State.SetLastSyncTime(service.now()); err != nil {
		log.Printf("sync: record last sync time: %v", err)
	}

	record, found, err := service.repos.DailyRecords.ForDate(userID, date)
	if err != nil || !found {
		if err != nil {
			log.Printf("sync: reload record: %v", err)
		}
		return
	}
	listener.fireCompleted(record)
}

// AutoSync runs a quick sync only when the 30-minute gate has elapsed. The
// gate check advances the timestamp atomically, so near-simultaneous
// triggers (app resume plus a background timer) cannot both run. Reports
// whether a sync actually ran.
func (service *SyncService) AutoSync(ctx context.Context, userID string, listener SyncListener) (bool, error) {
	if userID == "" {
		log.Printf("sync: no user configured, skipping automatic sync")
		return false, nil
	}

	passed, err := service.repos.State.AdvanceSyncGate(service.now(), service.interval)
	if err != nil {
		return false, err
	}
	if !passed {
		return false, nil
	}
	return true, service.QuickSync(ctx, userID, listener)
}

// Manual metric updates. Each is one combined ensure-user + upsert task.

func (service *SyncService) UpdateSleep(userID string, sleepHours float64) <-chan error {
	return service.repos.DailyRecords.SetSleepHours(userID, service.today(), sleepHours)
}

func (service *SyncService) UpdateWater(userID string, waterGlasses int) <-chan error {
	return service.repos.DailyRecords.SetWaterGlasses(userID, service.today(), waterGlasses)
}

func (service *SyncService) UpdateHeartRate(userID string, heartRate int) <-chan error {
	return service.repos.DailyRecords.SetHeartRate(userID, service.today(), heartRate)
}
