package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTelegramTestNotifier(server *httptest.Server) *TelegramNotifier {
	return &TelegramNotifier{
		baseURL:  server.URL,
		botToken: "bot-token",
		chatID:   "chat-42",
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func TestTelegramNotifySendsFormEncodedMessage(t *testing.T) {
	var gotPath, gotChatID, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotChatID = r.PostFormValue("chat_id")
		gotText = r.PostFormValue("text")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	if err := newTelegramTestNotifier(server).Notify("water", "Hydration reminder", "Time to drink some water!"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if gotPath != "/botbot-token/sendMessage" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotChatID != "chat-42" {
		t.Fatalf("unexpected chat id %q", gotChatID)
	}
	if gotText != "Hydration reminder\nTime to drink some water!" {
		t.Fatalf("unexpected text %q", gotText)
	}
}

func TestTelegramNotifySkipsTitleWhenEmpty(t *testing.T) {
	var gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotText = r.PostFormValue("text")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	if err := newTelegramTestNotifier(server).Notify("morning", "", "Good morning!"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if gotText != "Good morning!" {
		t.Fatalf("unexpected text %q", gotText)
	}
}

func TestTelegramNotifyReportsAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer server.Close()

	err := newTelegramTestNotifier(server).Notify("water", "Hydration reminder", "Time to drink some water!")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected a status error, got %v", err)
	}
}
