package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the runtime settings read from the environment. A .env file
// in the working directory is loaded first; explicit environment variables
// win over it.
type Config struct {
	DBPath       string
	Port         string
	Timezone     string
	SecretKey    string
	SyncInterval time.Duration
	WriteWorkers int

	TelegramBotToken string
	TelegramChatID   string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: loading .env failed: %v", err)
		}
	}

	return Config{
		DBPath:           getEnv("DB_PATH", filepath.Join("data", "vitalog.db")),
		Port:             getEnv("PORT", "8080"),
		Timezone:         getEnv("TZ", "UTC"),
		SecretKey:        getEnv("SECRET_KEY", "change_me_in_production"),
		SyncInterval:     time.Duration(getEnvInt("SYNC_INTERVAL_MIN", 30)) * time.Minute,
		WriteWorkers:     getEnvInt("WRITE_WORKERS", 2),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
	}
}

// Location resolves the configured timezone, falling back to UTC on a bad
// name.
func (config Config) Location() *time.Location {
	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		log.Printf("config: invalid TZ %q, falling back to UTC", config.Timezone)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: invalid %s %q, using %d", key, raw, fallback)
		return fallback
	}
	return value
}
