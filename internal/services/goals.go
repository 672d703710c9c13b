package services

import "github.com/nroussel/vitalog/internal/models"

const moderateActivityFactor = 1.55

// PersonalizedCaloriesGoal derives a daily calorie goal from the user's
// profile with the Harris-Benedict equation at a moderate activity level.
// An incomplete profile falls back to the default goal.
func PersonalizedCaloriesGoal(user models.User) int {
	if user.WeightKg <= 0 || user.HeightCm <= 0 || user.Age <= 0 {
		return models.DefaultCaloriesGoal
	}
	bmr := 88.362 + 13.397*user.WeightKg + 4.799*user.HeightCm - 5.677*float64(user.Age)
	return int(bmr * moderateActivityFactor)
}

// PersonalizedStepsGoal adapts the daily step goal to the user's age.
func PersonalizedStepsGoal(user models.User) int {
	if user.Age <= 0 {
		return models.DefaultStepsGoal
	}
	switch {
	case user.Age < 30:
		return 12000
	case user.Age < 50:
		return 10000
	case user.Age < 65:
		return 8000
	default:
		return 6000
	}
}
