package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/nroussel/vitalog/internal/models"
)

func TestGetTodayReturnsEmptyRecordForFreshAccount(t *testing.T) {
	app, _ := newTestApp(t, nil)
	_, token := registerTestUser(t, app, "fresh@example.com")

	response := doJSON(t, app, http.MethodGet, "/api/records/today", token, nil)
	expectStatus(t, response, http.StatusOK)
	body := decodeBody(t, response)

	if body["date"] != time.Now().UTC().Format("2006-01-02") {
		t.Fatalf("expected today's date, got %v", body["date"])
	}
	if body["steps"] != float64(0) {
		t.Fatalf("expected zero steps, got %v", body["steps"])
	}
}

func TestUpdateWaterPersistsAndReads(t *testing.T) {
	app, repos := newTestApp(t, nil)
	userID, token := registerTestUser(t, app, "water@example.com")

	response := doJSON(t, app, http.MethodPost, "/api/records/water", token, map[string]any{"glasses": 5})
	expectStatus(t, response, http.StatusOK)
	response.Body.Close()

	record, found, err := repos.DailyRecords.Today(userID, time.Now().UTC())
	if err != nil || !found {
		t.Fatalf("load record: found=%v err=%v", found, err)
	}
	if record.WaterGlasses != 5 {
		t.Fatalf("expected 5 glasses, got %d", record.WaterGlasses)
	}
}

func TestUpdateWaterRejectsNegative(t *testing.T) {
	app, _ := newTestApp(t, nil)
	_, token := registerTestUser(t, app, "negwater@example.com")

	response := doJSON(t, app, http.MethodPost, "/api/records/water", token, map[string]any{"glasses": -1})
	expectStatus(t, response, http.StatusBadRequest)
	response.Body.Close()
}

func TestUpdateSleepValidatesRange(t *testing.T) {
	app, _ := newTestApp(t, nil)
	_, token := registerTestUser(t, app, "sleep@example.com")

	response := doJSON(t, app, http.MethodPost, "/api/records/sleep", token, map[string]any{"sleep_hours": 25.0})
	expectStatus(t, response, http.StatusBadRequest)
	response.Body.Close()

	response = doJSON(t, app, http.MethodPost, "/api/records/sleep", token, map[string]any{"sleep_hours": 7.5})
	expectStatus(t, response, http.StatusOK)
	response.Body.Close()
}

func TestUpdateHeartRateValidatesRange(t *testing.T) {
	app, _ := newTestApp(t, nil)
	_, token := registerTestUser(t, app, "heart@example.com")

	for _, bad := range []int{0, -10, 301} {
		response := doJSON(t, app, http.MethodPost, "/api/records/heart-rate", token, map[string]any{"heart_rate": bad})
		if response.StatusCode != http.StatusBadRequest {
			t.Errorf("heart rate %d: expected 400, got %d", bad, response.StatusCode)
		}
		response.Body.Close()
	}

	response := doJSON(t, app, http.MethodPost, "/api/records/heart-rate", token, map[string]any{"heart_rate": 72})
	expectStatus(t, response, http.StatusOK)
	response.Body.Close()
}

func TestGetRecordsReturnsRange(t *testing.T) {
	app, repos := newTestApp(t, nil)
	userID, token := registerTestUser(t, app, "range@example.com")

	if err := <-repos.DailyRecords.UpsertActivityTotals(userID, "2026-08-28", 4000, 300, 2.8); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	if err := <-repos.DailyRecords.UpsertActivityTotals(userID, "2026-08-29", 6000, 450, 4.2); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	response := doJSON(t, app, http.MethodGet, "/api/records?from=2026-08-28&to=2026-08-29", token, nil)
	expectStatus(t, response, http.StatusOK)
	body := decodeBody(t, response)

	records, ok := body["records"].([]any)
	if !ok || len(records) != 2 {
		t.Fatalf("expected 2 records, got %v", body["records"])
	}
	first, _ := records[0].(map[string]any)
	if first["date"] != "2026-08-28" || first["steps"] != float64(4000) {
		t.Fatalf("unexpected first record %v", first)
	}
}

func TestGetRecordsRejectsMalformedDates(t *testing.T) {
	app, _ := newTestApp(t, nil)
	_, token := registerTestUser(t, app, "baddate@example.com")

	response := doJSON(t, app, http.MethodGet, "/api/records?from=yesterday&to=2026-08-29", token, nil)
	expectStatus(t, response, http.StatusBadRequest)
	response.Body.Close()
}

func TestSyncPopulatesTodayRecord(t *testing.T) {
	app, _ := newTestApp(t, nil)
	_, token := registerTestUser(t, app, "sync@example.com")

	response := doJSON(t, app, http.MethodPost, "/api/sync", token, nil)
	expectStatus(t, response, http.StatusOK)
	body := decodeBody(t, response)

	steps, _ := body["steps"].(float64)
	if steps < 5000 || steps >= 10000 {
		t.Fatalf("expected simulated steps in range, got %v", steps)
	}
	sleep, _ := body["sleep_hours"].(float64)
	if sleep < 6.5 || sleep >= 9.5 {
		t.Fatalf("expected simulated sleep in range, got %v", sleep)
	}
}

func TestQuickSyncReturnsRefreshedRecord(t *testing.T) {
	app, _ := newTestApp(t, nil)
	_, token := registerTestUser(t, app, "quick@example.com")

	response := doJSON(t, app, http.MethodPost, "/api/sync/quick", token, nil)
	expectStatus(t, response, http.StatusOK)
	body := decodeBody(t, response)

	steps, _ := body["steps"].(float64)
	if steps < 5000 || steps >= 10000 {
		t.Fatalf("expected simulated steps in range, got %v", steps)
	}
}

func TestAutoSyncThrottlesSecondCall(t *testing.T) {
	app, _ := newTestApp(t, nil)
	_, token := registerTestUser(t, app, "auto@example.com")

	response := doJSON(t, app, http.MethodPost, "/api/sync/auto", token, nil)
	expectStatus(t, response, http.StatusOK)
	if body := decodeBody(t, response); body["ran"] != true {
		t.Fatalf("expected first auto sync to run, got %v", body)
	}

	response = doJSON(t, app, http.MethodPost, "/api/sync/auto", token, nil)
	expectStatus(t, response, http.StatusOK)
	if body := decodeBody(t, response); body["ran"] != false {
		t.Fatalf("expected second auto sync to be throttled, got %v", body)
	}
}

func TestStatsOverviewAveragesWeek(t *testing.T) {
	app, repos := newTestApp(t, nil)
	userID, token := registerTestUser(t, app, "stats@example.com")

	today := time.Now().UTC()
	for i, steps := range []int{4000, 8000} {
		date := models.DayKey(today.AddDate(0, 0, -i))
		if err := <-repos.DailyRecords.UpsertActivityTotals(userID, date, steps, 300, 2.0); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	response := doJSON(t, app, http.MethodGet, "/api/stats/overview", token, nil)
	expectStatus(t, response, http.StatusOK)
	body := decodeBody(t, response)

	if body["average_steps_7d"] != float64(6000) {
		t.Fatalf("expected 6000 average steps, got %v", body["average_steps_7d"])
	}
	if body["total_steps_7d"] != float64(12000) {
		t.Fatalf("expected 12000 total steps, got %v", body["total_steps_7d"])
	}
}
