package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	MongoURL string
	MongoDB  string

	// AppURL is the public frontend, used for links in notifications.
	AppURL string
	// BaseURL is this API's public address, used for uploaded file URLs.
	BaseURL   string
	UploadDir string

	TelegramToken  string
	TelegramChatID int64

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration
	AdminEmail       string
	AdminPassword    string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "4200"),
		MongoURL: getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "online_cinema"),

		AppURL:    getEnv("APP_URL", "https://cinema24.vercel.app"),
		BaseURL:   getEnv("BASE_URL", "http://localhost:4200"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
		TelegramChatID: parseInt64(getEnv("TELEGRAM_CHAT_ID", "0")),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "1h")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "360h")),
		AdminEmail:       getEnv("ADMIN_EMAIL", "admin@cinema24.app"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Hour
	}
	return d
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
