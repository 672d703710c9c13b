package api

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nroussel/vitalog/internal/models"
	"github.com/nroussel/vitalog/internal/services"
)

type foodInput struct {
	Name           string  `json:"name"`
	Brand          string  `json:"brand"`
	MealType       string  `json:"meal_type"`
	CaloriesPer100 float64 `json:"calories_per_100g"`
	ProteinPer100  float64 `json:"protein_per_100g"`
	CarbsPer100    float64 `json:"carbs_per_100g"`
	FatPer100      float64 `json:"fat_per_100g"`
	QuantityG      float64 `json:"quantity_g"`
}

func (handler *Handler) LogFood(c *fiber.Ctx) error {
	var input foodInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.QuantityG <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if !validMealType(input.MealType) {
		return apiError(c, fiber.StatusBadRequest, "invalid meal type")
	}

	userID := currentUserID(c)
	entry := models.FoodEntry{
		Name:           input.Name,
		Brand:          input.Brand,
		MealType:       input.MealType,
		CaloriesPer100: input.CaloriesPer100,
		ProteinPer100:  input.ProteinPer100,
		CarbsPer100:    input.CarbsPer100,
		FatPer100:      input.FatPer100,
		QuantityG:      input.QuantityG,
	}
	if err := <-handler.nutrition.LogFood(userID, entry); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to log food")
	}
	handler.reportCaloriesGoal(userID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

type scanInput struct {
	Barcode   string  `json:"barcode"`
	MealType  string  `json:"meal_type"`
	QuantityG float64 `json:"quantity_g"`
}

func (handler *Handler) ScanFood(c *fiber.Ctx) error {
	var input scanInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.Barcode = strings.TrimSpace(input.Barcode)
	if input.Barcode == "" || input.QuantityG <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if !validMealType(input.MealType) {
		return apiError(c, fiber.StatusBadRequest, "invalid meal type")
	}

	userID := currentUserID(c)
	product, err := handler.nutrition.LogScannedFood(c.Context(), userID, input.Barcode, input.MealType, input.QuantityG)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return apiError(c, fiber.StatusNotFound, "product not found")
		}
		return apiError(c, fiber.StatusBadGateway, "product lookup failed")
	}
	handler.reportCaloriesGoal(userID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"name":              product.Name,
		"brand":             product.Brand,
		"barcode":           product.Barcode,
		"image_url":         product.ImageURL,
		"calories_per_100g": product.CaloriesPer100,
		"protein_per_100g":  product.ProteinPer100,
		"carbs_per_100g":    product.CarbsPer100,
		"fat_per_100g":      product.FatPer100,
	})
}

func (handler *Handler) GetFoodLog(c *fiber.Ctx) error {
	userID := currentUserID(c)
	date := dateParam(c, "date", handler.today())
	if date == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	entries, err := handler.repos.FoodLog.ForDate(userID, date)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load food log")
	}
	calories, protein, carbs, fat, err := handler.repos.FoodLog.TotalsForDate(userID, date)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to total food log")
	}

	views := make([]foodEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, viewOfFoodEntry(entry))
	}
	return c.JSON(fiber.Map{
		"entries": views,
		"totals": fiber.Map{
			"calories":  calories,
			"protein_g": protein,
			"carbs_g":   carbs,
			"fat_g":     fat,
		},
	})
}

// reportCaloriesGoal re-reads today's burn total and feeds the achievement
// check after a nutrition write touched the daily record.
func (handler *Handler) reportCaloriesGoal(userID string) {
	record, found, err := handler.repos.DailyRecords.ForDate(userID, handler.today())
	if err != nil || !found {
		return
	}
	if _, err := handler.achievements.Report(userID, services.GoalCalories, float64(record.Calories)); err != nil {
		log.Printf("api: calories achievement check failed: %v", err)
	}
}

func validMealType(mealType string) bool {
	switch mealType {
	case models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack:
		return true
	default:
		return false
	}
}
