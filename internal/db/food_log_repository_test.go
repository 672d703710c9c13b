package db

import (
	"math"
	"testing"
	"time"

	"github.com/nroussel/vitalog/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAddAndRollUpScalesMacrosByQuantity(t *testing.T) {
	repos := openTestRepositories(t)

	// 250g of a 52 kcal/100g product.
	entry := models.FoodEntry{
		UserID:         "user-1",
		Date:           "2026-08-30",
		Name:           "Apple",
		MealType:       models.MealSnack,
		CaloriesPer100: 52,
		ProteinPer100:  0.3,
		CarbsPer100:    14,
		FatPer100:      0.2,
		QuantityG:      250,
	}
	if err := <-repos.FoodLog.AddAndRollUp(entry); err != nil {
		t.Fatalf("add: %v", err)
	}

	record, found, err := repos.DailyRecords.ForDate("user-1", "2026-08-30")
	if err != nil || !found {
		t.Fatalf("load record: found=%v err=%v", found, err)
	}
	if record.ConsumedCalories != 130 {
		t.Fatalf("expected 130 consumed kcal, got %d", record.ConsumedCalories)
	}
	if !almostEqual(record.CarbsG, 35) {
		t.Fatalf("expected 35g carbs, got %v", record.CarbsG)
	}
}

func TestRollUpSumsAllEntriesOfTheDay(t *testing.T) {
	repos := openTestRepositories(t)

	entries := []models.FoodEntry{
		{UserID: "user-1", Date: "2026-08-30", Name: "Oats", MealType: models.MealBreakfast, CaloriesPer100: 380, QuantityG: 50},
		{UserID: "user-1", Date: "2026-08-30", Name: "Milk", MealType: models.MealBreakfast, CaloriesPer100: 64, QuantityG: 200},
		{UserID: "user-1", Date: "2026-08-29", Name: "Yesterday", MealType: models.MealDinner, CaloriesPer100: 900, QuantityG: 100},
	}
	for _, entry := range entries {
		if err := <-repos.FoodLog.AddAndRollUp(entry); err != nil {
			t.Fatalf("add %s: %v", entry.Name, err)
		}
	}

	calories, _, _, _, err := repos.FoodLog.TotalsForDate("user-1", "2026-08-30")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !almostEqual(calories, 318) {
		t.Fatalf("expected 318 kcal for the day, got %v", calories)
	}

	record, _, err := repos.DailyRecords.ForDate("user-1", "2026-08-30")
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	if record.ConsumedCalories != 318 {
		t.Fatalf("expected rolled-up 318 kcal, got %d", record.ConsumedCalories)
	}

	yesterday, _, err := repos.DailyRecords.ForDate("user-1", "2026-08-29")
	if err != nil {
		t.Fatalf("load yesterday: %v", err)
	}
	if yesterday.ConsumedCalories != 900 {
		t.Fatalf("expected yesterday's roll-up untouched at 900, got %d", yesterday.ConsumedCalories)
	}
}

func TestFoodLogIsAppendOnly(t *testing.T) {
	repos := openTestRepositories(t)

	entry := models.FoodEntry{
		UserID:         "user-1",
		Date:           "2026-08-30",
		Name:           "Banana",
		MealType:       models.MealSnack,
		CaloriesPer100: 89,
		QuantityG:      120,
	}
	for i := 0; i < 3; i++ {
		if err := <-repos.FoodLog.Add(entry); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	logged, err := repos.FoodLog.ForDate("user-1", "2026-08-30")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logged) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(logged))
	}
}

func TestAddDefaultsDateFromLoggedAt(t *testing.T) {
	repos := openTestRepositories(t)

	if err := <-repos.FoodLog.Add(models.FoodEntry{
		UserID:         "user-1",
		Name:           "Rice",
		MealType:       models.MealLunch,
		CaloriesPer100: 130,
		QuantityG:      180,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	today := models.DayKey(time.Now())
	logged, err := repos.FoodLog.ForDate("user-1", today)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logged) != 1 {
		t.Fatalf("expected the entry under today's date, got %d entries", len(logged))
	}
}
