package services

import "context"

// FitnessSource is the external fitness data provider. Each query is a
// single one-day-bucket aggregate for the current calendar day in the
// user's local timezone.
type FitnessSource interface {
	// Available reports whether the source is usable: the user is signed in
	// AND has granted the required data scopes.
	Available() bool
	TodaySteps(ctx context.Context) (int, error)
	TodayCalories(ctx context.Context) (int, error)
	// SleepHours returns last night's sleep duration. Sleep is fetched
	// independently of steps/calories and may be unavailable.
	SleepHours(ctx context.Context) (float64, error)
}
