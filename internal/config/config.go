package config

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

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	TimeZone            string
	DueBatchSize        int
	GoldenListPath      string
	StreakResetOnGap    bool
	RateLimitRPS        float64
	RateLimitBurst      int
	CORSAllowedOrigins  []string
	SessionTTL          time.Duration
	MaintenanceInterval time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:studyflash.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		TimeZone:            envOr("TIME_ZONE", "UTC"),
		DueBatchSize:        envIntOr("DUE_BATCH_SIZE", 50),
		GoldenListPath:      os.Getenv("GOLDEN_LIST_PATH"),
		StreakResetOnGap:    envBoolOr("STREAK_RESET_ON_GAP", false),
		RateLimitRPS:        envFloatOr("RATE_LIMIT_RPS", 5),
		RateLimitBurst:      envIntOr("RATE_LIMIT_BURST", 10),
		CORSAllowedOrigins:  envListOr("CORS_ALLOWED_ORIGINS", nil),
		SessionTTL:          envDurationOr("SESSION_TTL", 12*time.Hour),
		MaintenanceInterval: envDurationOr("MAINTENANCE_INTERVAL", time.Minute),
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("TIME_ZONE %q is not a known location", c.TimeZone))
	}
	if c.DueBatchSize < 1 || c.DueBatchSize > 500 {
		errs = append(errs, fmt.Errorf("DUE_BATCH_SIZE must be between 1 and 500, got %d", c.DueBatchSize))
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimitRPS))
	}
	if c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %v", c.SessionTTL))
	}
	if c.MaintenanceInterval <= 0 {
		errs = append(errs, fmt.Errorf("MAINTENANCE_INTERVAL must be positive, got %v", c.MaintenanceInterval))
	}
	if c.GoldenListPath != "" {
		if _, err := os.Stat(c.GoldenListPath); err != nil {
			errs = append(errs, fmt.Errorf("GOLDEN_LIST_PATH: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Location returns the time zone that defines calendar study days.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
