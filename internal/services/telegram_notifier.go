package services

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const telegramBaseURL = "https://api.telegram.org"

// TelegramNotifier delivers notifications through the Telegram Bot API. The
// notification id is ignored: a bot delivers to one configured chat.
type TelegramNotifier struct {
	baseURL  string
	botToken string
	chatID   string
	client   *http.Client
}

func NewTelegramNotifier(botToken string, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		baseURL:  telegramBaseURL,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (notifier *TelegramNotifier) Notify(id string, title string, message string) error {
	text := message
	if title != "" {
		text = title + "\n" + message
	}

	values := url.Values{}
	values.Set("chat_id", notifier.chatID)
	values.Set("text", text)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", notifier.baseURL, notifier.botToken)
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := notifier.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
