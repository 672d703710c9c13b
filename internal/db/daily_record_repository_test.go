package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nroussel/vitalog/internal/models"
)

func TestUpsertActivityTotalsCreatesStubUserAndRecord(t *testing.T) {
	repos := openTestRepositories(t)

	if err := <-repos.DailyRecords.UpsertActivityTotals("user-1", "2026-08-30", 8200, 1750, 5.74); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	user, found, err := repos.Users.FindByID("user-1")
	if err != nil || !found {
		t.Fatalf("expected stub user to exist, found=%v err=%v", found, err)
	}
	if user.DisplayName != models.StubDisplayName {
		t.Fatalf("expected stub display name, got %q", user.DisplayName)
	}
	if user.DailyStepsGoal != models.DefaultStepsGoal {
		t.Fatalf("expected default steps goal, got %d", user.DailyStepsGoal)
	}

	record, found, err := repos.DailyRecords.ForDate("user-1", "2026-08-30")
	if err != nil || !found {
		t.Fatalf("expected record to exist, found=%v err=%v", found, err)
	}
	if record.Steps != 8200 || record.Calories != 1750 {
		t.Fatalf("unexpected record values: %+v", record)
	}
}

func TestUpsertKeepsOneRowPerUserAndDay(t *testing.T) {
	repos := openTestRepositories(t)

	if err := <-repos.DailyRecords.UpsertActivityTotals("user-1", "2026-08-30", 1000, 300, 0.7); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := <-repos.DailyRecords.UpsertActivityTotals("user-1", "2026-08-30", 9000, 1900, 6.3); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	records, err := repos.DailyRecords.BetweenDates("user-1", "2026-08-30", "2026-08-30")
	if err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected a single row for the day, got %d", len(records))
	}
	if records[0].Steps != 9000 {
		t.Fatalf("expected the later write to win, got %d steps", records[0].Steps)
	}
}

func TestPartialSettersLeaveOtherFieldsUntouched(t *testing.T) {
	repos := openTestRepositories(t)

	if err := <-repos.DailyRecords.UpsertActivityTotals("user-1", "2026-08-30", 7000, 1600, 4.9); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	if err := <-repos.DailyRecords.SetSleepHours("user-1", "2026-08-30", 7.5); err != nil {
		t.Fatalf("set sleep: %v", err)
	}
	if err := <-repos.DailyRecords.SetWaterGlasses("user-1", "2026-08-30", 6); err != nil {
		t.Fatalf("set water: %v", err)
	}

	record, _, err := repos.DailyRecords.ForDate("user-1", "2026-08-30")
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	if record.Steps != 7000 {
		t.Fatalf("steps were clobbered: %d", record.Steps)
	}
	if record.SleepHours != 7.5 || record.WaterGlasses != 6 {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestUpsertRejectsEmptyUserID(t *testing.T) {
	repos := openTestRepositories(t)

	err := <-repos.DailyRecords.UpsertActivityTotals("", "2026-08-30", 100, 50, 0.07)
	if !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
}

func TestBetweenDatesReturnsAscendingAndInclusive(t *testing.T) {
	repos := openTestRepositories(t)

	for _, seed := range []struct {
		date  string
		steps int
	}{
		{"2026-08-28", 4000},
		{"2026-08-30", 6000},
		{"2026-08-29", 5000},
		{"2026-08-27", 3000},
	} {
		if err := <-repos.DailyRecords.UpsertActivityTotals("user-1", seed.date, seed.steps, 0, 0); err != nil {
			t.Fatalf("seed %s: %v", seed.date, err)
		}
	}

	records, err := repos.DailyRecords.BetweenDates("user-1", "2026-08-28", "2026-08-30")
	if err != nil {
		t.Fatalf("load range: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, wantDate := range []string{"2026-08-28", "2026-08-29", "2026-08-30"} {
		if records[i].Date != wantDate {
			t.Fatalf("position %d: expected %s, got %s", i, wantDate, records[i].Date)
		}
	}
}

func TestAggregatesOverRange(t *testing.T) {
	repos := openTestRepositories(t)

	seeds := map[string]int{
		"2026-08-28": 4000,
		"2026-08-29": 6000,
		"2026-08-30": 8000,
	}
	for date, steps := range seeds {
		if err := <-repos.DailyRecords.UpsertActivityTotals("user-1", date, steps, 0, 0); err != nil {
			t.Fatalf("seed %s: %v", date, err)
		}
		if err := <-repos.DailyRecords.SetSleepHours("user-1", date, 8.0); err != nil {
			t.Fatalf("seed sleep %s: %v", date, err)
		}
	}

	average, err := repos.DailyRecords.AverageSteps("user-1", "2026-08-28")
	if err != nil {
		t.Fatalf("average steps: %v", err)
	}
	if average != 6000 {
		t.Fatalf("expected average 6000, got %v", average)
	}

	total, err := repos.DailyRecords.TotalStepsBetween("user-1", "2026-08-28", "2026-08-30")
	if err != nil {
		t.Fatalf("total steps: %v", err)
	}
	if total != 18000 {
		t.Fatalf("expected total 18000, got %d", total)
	}

	averageSleep, err := repos.DailyRecords.AverageSleep("user-1", "2026-08-28")
	if err != nil {
		t.Fatalf("average sleep: %v", err)
	}
	if averageSleep != 8.0 {
		t.Fatalf("expected average sleep 8.0, got %v", averageSleep)
	}
}

func TestAggregatesAreZeroWithoutRows(t *testing.T) {
	repos := openTestRepositories(t)

	average, err := repos.DailyRecords.AverageSteps("ghost", "2026-01-01")
	if err != nil {
		t.Fatalf("average steps: %v", err)
	}
	if average != 0 {
		t.Fatalf("expected 0 average, got %v", average)
	}

	total, err := repos.DailyRecords.TotalStepsBetween("ghost", "2026-01-01", "2026-12-31")
	if err != nil {
		t.Fatalf("total steps: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected 0 total, got %d", total)
	}
}

func TestWatchDateEmitsCurrentStateAndUpdates(t *testing.T) {
	repos := openTestRepositories(t)

	if err := <-repos.DailyRecords.UpsertActivityTotals("user-1", "2026-08-30", 1000, 200, 0.7); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	watch := repos.DailyRecords.WatchDate(ctx, "user-1", "2026-08-30")

	first, ok := <-watch
	if !ok {
		t.Fatal("watch closed before first emission")
	}
	if first.Steps != 1000 {
		t.Fatalf("expected initial snapshot with 1000 steps, got %d", first.Steps)
	}

	if err := <-repos.DailyRecords.UpsertActivityTotals("user-1", "2026-08-30", 4000, 800, 2.8); err != nil {
		t.Fatalf("update record: %v", err)
	}

	deadline := time.After(4 * time.Second)
	for {
		select {
		case record, ok := <-watch:
			if !ok {
				t.Fatal("watch closed before update arrived")
			}
			if record.Steps == 4000 {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for updated snapshot")
		}
	}
}
