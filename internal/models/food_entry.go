package models

import "time"

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// FoodEntry is an append-only food-log line. Macro values are per 100g of
// product; ConsumedMacros scales them by the logged quantity.
type FoodEntry struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   string `gorm:"not null;index"`
	Date     string `gorm:"not null;index:idx_food_user_date"`
	LoggedAt time.Time

	Name     string `gorm:"not null"`
	Brand    string
	Barcode  string
	ImageURL string

	CaloriesPer100 float64
	ProteinPer100  float64
	CarbsPer100    float64
	FatPer100      float64

	QuantityG float64
	MealType  string
}

// ConsumedMacros returns the calories/protein/carbs/fat actually consumed,
// scaling the per-100g values by the logged quantity.
func (entry FoodEntry) ConsumedMacros() (calories, protein, carbs, fat float64) {
	multiplier := entry.QuantityG / 100
	return entry.CaloriesPer100 * multiplier,
		entry.ProteinPer100 * multiplier,
		entry.CarbsPer100 * multiplier,
		entry.FatPer100 * multiplier
}
