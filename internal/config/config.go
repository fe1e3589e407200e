package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Supported DATABASE_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config captures the runtime configuration for the service.
type Config struct {
	HTTPAddress        string
	DatabaseDriver     string
	DatabaseURL        string
	JWTKey             string
	UploadDir          string
	S3Bucket           string
	GoogleAPIKey       string
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigins []string
	MaxImageBytes      int64
}

// Load reads configuration from the environment with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddress:        valueOrDefault(os.Getenv("HTTP_ADDRESS"), ":8080"),
		DatabaseDriver:     strings.ToLower(valueOrDefault(os.Getenv("DATABASE_DRIVER"), DriverPostgres)),
		DatabaseURL:        valueOrDefault(os.Getenv("DATABASE_URL"), ""),
		JWTKey:             os.Getenv("JWT_KEY"),
		UploadDir:          valueOrDefault(os.Getenv("UPLOAD_DIR"), "uploads/images"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		GoogleAPIKey:       os.Getenv("GOOGLE_API_KEY"),
		LogLevel:           valueOrDefault(os.Getenv("LOG_LEVEL"), "info"),
		LogFormat:          valueOrDefault(os.Getenv("LOG_FORMAT"), "text"),
		CORSAllowedOrigins: splitList(valueOrDefault(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		MaxImageBytes:      500_000,
	}

	if raw := os.Getenv("MAX_IMAGE_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("MAX_IMAGE_BYTES must be a positive integer, got %q", raw)
		}
		cfg.MaxImageBytes = n
	}

	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL must be provided")
	}
	if !lo.Contains([]string{DriverPostgres, DriverSQLite}, cfg.DatabaseDriver) {
		return cfg, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DatabaseDriver)
	}

	return cfg, nil
}

// LoadServer reads the configuration and additionally requires the settings
// only the HTTP server needs.
func LoadServer() (Config, error) {
	cfg, err := Load()
	if err != nil {
		return cfg, err
	}
	if cfg.JWTKey == "" {
		return cfg, fmt.Errorf("JWT_KEY must be provided")
	}
	return cfg, nil
}

func valueOrDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	parts := lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(parts)
}
