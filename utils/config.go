package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingRequiredEnv = errors.New("missing required environment variable")

type Config struct {
	Env           string
	HTTPAddr      string
	StoreBackend  string
	DataDir       string
	RedisURL      string
	DatabaseURL   string
	AdminPassword string
	UserPassword  string
	SessionTTL    time.Duration
	StoreTimeout  time.Duration
	LogFile       string
	SendGridKey   string
	NotifyFrom    string
	NotifyDomain  string
}

// LoadConfig reads the environment, loading .env first outside production.
func LoadConfig() (Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, continuing..")
		}
	}

	cfg := Config{
		Env:           getEnv("APP_ENV", "development"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		StoreBackend:  getEnv("STORE_BACKEND", "sqlite"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		UserPassword:  getEnv("USER_PASSWORD", "user123"),
		SessionTTL:    getDurationEnv("SESSION_TTL", 24*time.Hour),
		StoreTimeout:  getDurationEnv("STORE_TIMEOUT", 5*time.Second),
		LogFile:       os.Getenv("LOG_FILE"),
		SendGridKey:   os.Getenv("SENDGRID_API_KEY"),
		NotifyFrom:    getEnv("NOTIFY_FROM", "donotreply@taskflow.local"),
		NotifyDomain:  getEnv("NOTIFY_DOMAIN", "taskflow.local"),
	}

	var err error
	switch cfg.StoreBackend {
	case "redis":
		cfg.RedisURL, err = mustEnv("REDIS_URL")
	case "postgres":
		cfg.DatabaseURL, err = mustEnv("DATABASE_URL")
	case "sqlite", "memory":
	default:
		err = fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
