package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nroussel/vitalog/internal/db"
	"github.com/nroussel/vitalog/internal/services"
)

// noopScheduler satisfies the alarm interface without arming anything, so
// handler tests never leave timer goroutines behind.
type noopScheduler struct{}

func (noopScheduler) Schedule(key string, firstFire time.Time, interval time.Duration, fire func(firedAt time.Time)) error {
	return nil
}
func (noopScheduler) Cancel(key string) {}
func (noopScheduler) CancelAll()        {}

type productSourceStub struct {
	product services.Product
	err     error
}

func (stub productSourceStub) Lookup(ctx context.Context, barcode string) (services.Product, error) {
	return stub.product, stub.err
}

func newTestApp(t *testing.T, productSource services.ProductSource) (*fiber.App, *db.Repositories) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "vitalog-api-test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	repos := db.NewRepositories(database, 2)
	t.Cleanup(repos.Close)

	syncService := services.NewSyncService(repos, nil, time.UTC)
	nutrition := services.NewNutritionService(repos, productSource)
	achievements := services.NewAchievementService(repos, services.LogNotifier{}, time.UTC)
	reminders := services.NewReminderService(repos, noopScheduler{}, services.LogNotifier{}, "", time.UTC)

	handler := NewHandler(repos, syncService, nutrition, reminders, achievements, "test-secret", time.UTC)
	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, repos
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func decodeBody(t *testing.T, response *http.Response) map[string]any {
	t.Helper()
	defer response.Body.Close()

	decoded := map[string]any{}
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return decoded
}

// registerTestUser creates an account through the public API and returns its
// id and bearer token.
func registerTestUser(t *testing.T, app *fiber.App, email string) (string, string) {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":        email,
		"password":     "StrongPass1",
		"display_name": "Test User",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register expected status 201, got %d", response.StatusCode)
	}

	body := decodeBody(t, response)
	userID, _ := body["user_id"].(string)
	token, _ := body["token"].(string)
	if userID == "" || token == "" {
		t.Fatalf("register returned incomplete session: %v", body)
	}
	return userID, token
}

func expectStatus(t *testing.T, response *http.Response, expected int) {
	t.Helper()
	if response.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, response.StatusCode)
	}
}
