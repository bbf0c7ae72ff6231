package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingJWTSecret is returned by Load when JWT_SECRET is not set.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

type Config struct {
	Port        string
	DatabaseURL string
	AppEnv      string
	Version     string
	JWTSecret   string

	LogLevel  string
	LogFormat string

	AllowedOrigins []string

	DBMaxOpenConns int
	DBMaxIdleConns int

	// Failed auth attempts allowed per client within LoginRateWindow.
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	appEnv := getEnv("APP_ENV", "development")

	cfg := &Config{
		Port:            getEnv("PORT", "3001"),
		DatabaseURL:     getEnv("DATABASE_URL", "file:lizdek.db"),
		AppEnv:          appEnv,
		Version:         getEnv("APP_VERSION", "1.0.0"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", defaultLogFormat(appEnv)),
		AllowedOrigins:  getList("CORS_ALLOWED_ORIGINS", defaultOrigins(appEnv)),
		DBMaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:  getInt("DB_MAX_IDLE_CONNS", 5),
		LoginRateLimit:  getInt("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow: getDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// RateLimitEnabled reports whether auth endpoints are throttled. Development
// and test runs skip the limiter.
func (c *Config) RateLimitEnabled() bool {
	return c.AppEnv != "development" && c.AppEnv != "test" && c.LoginRateLimit > 0
}

func defaultLogFormat(appEnv string) string {
	if appEnv == "production" {
		return "json"
	}
	return "text"
}

func defaultOrigins(appEnv string) []string {
	if appEnv == "production" {
		return []string{"https://lizdek.world", "https://www.lizdek.world", "https://api.lizdek.world"}
	}
	return []string{"http://localhost:5173", "http://localhost:3000"}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
