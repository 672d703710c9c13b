package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nroussel/vitalog/internal/db"
	"github.com/nroussel/vitalog/internal/models"
)

// ErrProductNotFound reports a barcode the product database does not know.
// It is distinct from lookup errors: not-found is an answer, an error is not.
var ErrProductNotFound = errors.New("product not found")

// Product is a food product resolved from a barcode, with macros per 100g.
type Product struct {
	Name           string
	Brand          string
	Barcode        string
	ImageURL       string
	CaloriesPer100 float64
	ProteinPer100  float64
	CarbsPer100    float64
	FatPer100      float64
}

// ProductSource resolves a barcode to a product. Lookup returns
// ErrProductNotFound when the database answered but has no such product.
type ProductSource interface {
	Lookup(ctx context.Context, barcode string) (Product, error)
}

const openFoodFactsBaseURL = "https://world.openfoodfacts.org"

// OpenFoodFactsClient resolves barcodes against the Open Food Facts public
// API.
type OpenFoodFactsClient struct {
	baseURL string
	client  *http.Client
}

func NewOpenFoodFactsClient() *OpenFoodFactsClient {
	return &OpenFoodFactsClient{
		baseURL: openFoodFactsBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type openFoodFactsResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		Brands      string `json:"brands"`
		ImageURL    string `json:"image_url"`
		Nutriments  struct {
			EnergyKcal100g    float64 `json:"energy-kcal_100g"`
			Proteins100g      float64 `json:"proteins_100g"`
			Carbohydrates100g float64 `json:"carbohydrates_100g"`
			Fat100g           float64 `json:"fat_100g"`
		} `json:"nutriments"`
	} `json:"product"`
}

func (offClient *OpenFoodFactsClient) Lookup(ctx context.Context, barcode string) (Product, error) {
	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", offClient.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Product{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := offClient.client.Do(req)
	if err != nil {
		return Product{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// The API answers 404 for unknown barcodes on some deployments and
	// status=0 on others; both mean not found.
	if resp.StatusCode == http.StatusNotFound {
		return Product{}, ErrProductNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Product{}, fmt.Errorf("openfoodfacts status %d: %s", resp.StatusCode, string(body))
	}

	var decoded openFoodFactsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Product{}, fmt.Errorf("decode response: %w", err)
	}
	if decoded.Status != 1 {
		return Product{}, ErrProductNotFound
	}

	name := decoded.Product.ProductName
	if name == "" {
		name = "Unknown product"
	}

	return Product{
		Name:           name,
		Brand:          decoded.Product.Brands,
		Barcode:        barcode,
		ImageURL:       decoded.Product.ImageURL,
		CaloriesPer100: decoded.Product.Nutriments.EnergyKcal100g,
		ProteinPer100:  decoded.Product.Nutriments.Proteins100g,
		CarbsPer100:    decoded.Product.Nutriments.Carbohydrates100g,
		FatPer100:      decoded.Product.Nutriments.Fat100g,
	}, nil
}

// NutritionService logs food and keeps the day's nutrition totals on the
// daily record current.
type NutritionService struct {
	repos  *db.Repositories
	source ProductSource
}

func NewNutritionService(repos *db.Repositories, source ProductSource) *NutritionService {
	return &NutritionService{repos: repos, source: source}
}

// LogFood appends a manually entered food item and rolls the day's totals up
// onto the daily record.
func (service *NutritionService) LogFood(userID string, entry models.FoodEntry) <-chan error {
	entry.UserID = userID
	return service.repos.FoodLog.AddAndRollUp(entry)
}

// LogScannedFood resolves a barcode and logs the product at the given
// quantity. The resolved product is returned so callers can show what was
// logged.
func (service *NutritionService) LogScannedFood(ctx context.Context, userID string, barcode string, mealType string, quantityG float64) (Product, error) {
	if service.source == nil {
		return Product{}, fmt.Errorf("no product source configured")
	}

	product, err := service.source.Lookup(ctx, barcode)
	if err != nil {
		return Product{}, err
	}

	entry := models.FoodEntry{
		UserID:         userID,
		Name:           product.Name,
		Brand:          product.Brand,
		Barcode:        product.Barcode,
		ImageURL:       product.ImageURL,
		CaloriesPer100: product.CaloriesPer100,
		ProteinPer100:  product.ProteinPer100,
		CarbsPer100:    product.CarbsPer100,
		FatPer100:      product.FatPer100,
		QuantityG:      quantityG,
		MealType:       mealType,
	}
	if err := <-service.repos.FoodLog.AddAndRollUp(entry); err != nil {
		return Product{}, err
	}
	return product, nil
}

// RecalcDailyTotals re-derives the day's consumed totals from the food log.
func (service *NutritionService) RecalcDailyTotals(userID string, date string) <-chan error {
	return service.repos.FoodLog.RollUpDate(userID, date)
}
