package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the service.
type Config struct {
	Port                string
	DatabasePath        string
	ProvisioningBaseURL string
	CallTimeout         time.Duration
	CompensationTimeout time.Duration
	SessionTTL          time.Duration
	MaxSessions         int
	LogLevel            slog.Level
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables take precedence over it.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                envOrDefault("PORT", "8080"),
		DatabasePath:        envOrDefault("DATABASE_PATH", "botecoflow.db"),
		ProvisioningBaseURL: strings.TrimRight(envOrDefault("PROVISIONING_BASE_URL", envOrDefault("API_URL", "http://localhost:8000")), "/"),
	}

	var err error
	if cfg.CallTimeout, err = durationEnv("CALL_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.CompensationTimeout, err = durationEnv("COMPENSATION_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 2*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.MaxSessions, err = intEnv("MAX_SESSIONS", 10000); err != nil {
		return Config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(envOrDefault("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("parsing LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parsing %s: must be positive, got %s", key, v)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("parsing %s: must be positive, got %d", key, n)
	}
	return n, nil
}
