package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDRESS", "DATABASE_DRIVER", "DATABASE_URL", "JWT_KEY", "UPLOAD_DIR",
		"S3_BUCKET", "GOOGLE_API_KEY", "LOG_LEVEL", "LOG_FORMAT", "CORS_ALLOWED_ORIGINS",
		"MAX_IMAGE_BYTES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/lessons")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddress)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "uploads/images", cfg.UploadDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int64(500_000), cfg.MaxImageBytes)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "file:lessons.db")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MAX_IMAGE_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int64(1024), cfg.MaxImageBytes)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/lessons")
	t.Setenv("DATABASE_DRIVER", "mysql")
	_, err = Load()
	assert.ErrorContains(t, err, "DATABASE_DRIVER")

	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("MAX_IMAGE_BYTES", "lots")
	_, err = Load()
	assert.ErrorContains(t, err, "MAX_IMAGE_BYTES")
}

func TestLoadServer_RequiresJWTKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/lessons")

	_, err := LoadServer()
	assert.ErrorContains(t, err, "JWT_KEY")

	t.Setenv("JWT_KEY", "secret")
	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.JWTKey)
}
