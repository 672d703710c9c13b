package api

import "github.com/nroussel/vitalog/internal/models"

type dailyRecordView struct {
	Date             string  `json:"date"`
	Steps            int     `json:"steps"`
	Calories         int     `json:"calories"`
	DistanceKm       float64 `json:"distance_km"`
	HeartRate        int     `json:"heart_rate"`
	SleepHours       float64 `json:"sleep_hours"`
	ConsumedCalories int     `json:"consumed_calories"`
	ProteinG         float64 `json:"protein_g"`
	CarbsG           float64 `json:"carbs_g"`
	FatG             float64 `json:"fat_g"`
	WaterGlasses     int     `json:"water_glasses"`
}

func viewOfDailyRecord(record models.DailyRecord) dailyRecordView {
	return dailyRecordView{
		Date:             record.Date,
		Steps:            record.Steps,
		Calories:         record.Calories,
		DistanceKm:       record.DistanceKm,
		HeartRate:        record.HeartRate,
		SleepHours:       record.SleepHours,
		ConsumedCalories: record.ConsumedCalories,
		ProteinG:         record.ProteinG,
		CarbsG:           record.CarbsG,
		FatG:             record.FatG,
		WaterGlasses:     record.WaterGlasses,
	}
}

func viewsOfDailyRecords(records []models.DailyRecord) []dailyRecordView {
	views := make([]dailyRecordView, 0, len(records))
	for _, record := range records {
		views = append(views, viewOfDailyRecord(record))
	}
	return views
}

type foodEntryView struct {
	ID               uint    `json:"id"`
	Date             string  `json:"date"`
	Name             string  `json:"name"`
	Brand            string  `json:"brand,omitempty"`
	Barcode          string  `json:"barcode,omitempty"`
	ImageURL         string  `json:"image_url,omitempty"`
	MealType         string  `json:"meal_type"`
	QuantityG        float64 `json:"quantity_g"`
	ConsumedCalories float64 `json:"consumed_calories"`
	ConsumedProtein  float64 `json:"consumed_protein_g"`
	ConsumedCarbs    float64 `json:"consumed_carbs_g"`
	ConsumedFat      float64 `json:"consumed_fat_g"`
}

func viewOfFoodEntry(entry models.FoodEntry) foodEntryView {
	calories, protein, carbs, fat := entry.ConsumedMacros()
	return foodEntryView{
		ID:               entry.ID,
		Date:             entry.Date,
		Name:             entry.Name,
		Brand:            entry.Brand,
		Barcode:          entry.Barcode,
		ImageURL:         entry.ImageURL,
		MealType:         entry.MealType,
		QuantityG:        entry.QuantityG,
		ConsumedCalories: calories,
		ConsumedProtein:  protein,
		ConsumedCarbs:    carbs,
		ConsumedFat:      fat,
	}
}

type activityEntryView struct {
	ID             uint    `json:"id"`
	Date           string  `json:"date"`
	ActivityType   string  `json:"activity_type"`
	Description    string  `json:"description,omitempty"`
	DurationMin    int     `json:"duration_min"`
	CaloriesBurned int     `json:"calories_burned"`
	DistanceKm     float64 `json:"distance_km"`
	AvgHeartRate   int     `json:"avg_heart_rate,omitempty"`
}

func viewOfActivityEntry(entry models.ActivityEntry) activityEntryView {
	return activityEntryView{
		ID:             entry.ID,
		Date:           entry.Date,
		ActivityType:   entry.ActivityType,
		Description:    entry.Description,
		DurationMin:    entry.DurationMin,
		CaloriesBurned: entry.CaloriesBurned,
		DistanceKm:     entry.DistanceKm,
		AvgHeartRate:   entry.AvgHeartRate,
	}
}
