package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the bot process configuration, read from the environment.
type Config struct {
	AppEnv            string
	BotToken          string
	RedisURL          string
	DatabaseURL       string
	CredentialBackend string
	CredentialKey     string
	AttendanceAPIURL  string
	Port              int
	FetchTimeout      time.Duration
	Workers           int
	TrustedProxies    []string
}

// LoadEnv reads a .env file outside production.
func LoadEnv() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, continuing..")
		}
	}
}

// LoadConfig loads .env (outside production) and parses the environment.
func LoadConfig() (Config, error) {
	LoadEnv()
	return ParseConfig(os.Getenv)
}

// ParseConfig builds a Config from getenv, applying defaults.
func ParseConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		AppEnv:            getenvDefault(getenv, "APP_ENV", "development"),
		BotToken:          getenv("BOT_TOKEN"),
		RedisURL:          getenvDefault(getenv, "REDIS_URL", "redis://localhost:6379"),
		DatabaseURL:       getenv("DATABASE_URL"),
		CredentialBackend: getenvDefault(getenv, "CREDENTIAL_BACKEND", "redis"),
		CredentialKey:     getenv("CREDENTIAL_KEY"),
		AttendanceAPIURL:  getenvDefault(getenv, "ATTENDANCE_API_URL", "http://localhost:8080/attendance"),
		Port:              5000,
		FetchTimeout:      30 * time.Second,
		Workers:           16,
	}

	if cfg.BotToken == "" {
		return cfg, errors.New("BOT_TOKEN is required")
	}

	switch cfg.CredentialBackend {
	case "redis":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return cfg, errors.New("DATABASE_URL is required when CREDENTIAL_BACKEND=postgres")
		}
	default:
		return cfg, fmt.Errorf("unknown CREDENTIAL_BACKEND %q", cfg.CredentialBackend)
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}
	if v := getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid FETCH_TIMEOUT %q", v)
		}
		cfg.FetchTimeout = d
	}
	if v := getenv("WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid WORKERS %q", v)
		}
		cfg.Workers = n
	}

	for _, p := range strings.Split(getenv("TRUSTED_PROXIES"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.TrustedProxies = append(cfg.TrustedProxies, p)
		}
	}

	if cfg.CredentialKey == "" {
		log.Println("CREDENTIAL_KEY not set: saved passwords will be stored unencrypted")
	}
	return cfg, nil
}

func getenvDefault(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}
