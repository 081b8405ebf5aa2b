package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	ServiceName string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	CORSOrigins []string

	// Startup connection retry budget.
	DBConnectAttempts int
	DBConnectDelay    time.Duration
}

// DatabaseConfig is the subset auxiliary binaries need: they talk to the
// database but never issue tokens, so JWT settings are not required.
type DatabaseConfig struct {
	URL             string
	ConnectAttempts int
	ConnectDelay    time.Duration
}

// Load reads the full server configuration from the environment and
// performs minimal validation.
func Load() (Config, error) {
	db, err := LoadDatabase()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:              fallback(os.Getenv("PORT"), "8080"),
		ServiceName:       fallback(os.Getenv("SERVICE_NAME"), "edu-backend"),
		DatabaseURL:       db.URL,
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:         fallback(os.Getenv("JWT_ISSUER"), "edu-backend"),
		JWTTTL:            minutesOr("JWT_TTL_MINUTES", 30),
		CORSOrigins:       parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		DBConnectAttempts: db.ConnectAttempts,
		DBConnectDelay:    db.ConnectDelay,
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// LoadDatabase reads only the database-related settings.
func LoadDatabase() (DatabaseConfig, error) {
	db := DatabaseConfig{
		URL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ConnectAttempts: intOr("DB_CONNECT_ATTEMPTS", 10),
		ConnectDelay:    secondsOr("DB_CONNECT_DELAY_SECONDS", 2),
	}
	if db.URL == "" {
		return DatabaseConfig{}, errors.New("DATABASE_URL is required")
	}
	return db, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func intOr(key string, def int) int {
	if n, err := strconv.Atoi(fallback(os.Getenv(key), "")); err == nil && n > 0 {
		return n
	}
	return def
}

func minutesOr(key string, def int) time.Duration {
	return time.Duration(intOr(key, def)) * time.Minute
}

func secondsOr(key string, def int) time.Duration {
	return time.Duration(intOr(key, def)) * time.Second
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
