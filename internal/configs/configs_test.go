package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("S3_BUCKET_NAME", "")
	t.Setenv("WS_REQUIRE_TOKEN", "")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test ,,http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8000, cfg.Port)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.False(t, cfg.WSRequireToken)
	assert.False(t, cfg.StorageEnabled())
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://x")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("WS_REQUIRE_TOKEN", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.WSRequireToken)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	t.Setenv("PORT", "80")
	_, err := LoadConfig()
	assert.Error(t, err)
	t.Setenv("PORT", "")

	t.Setenv("ADMIN_EMAIL", "admin@resq.test")
	t.Setenv("ADMIN_PASSWORD", "")
	_, err = LoadConfig()
	assert.Error(t, err)
	t.Setenv("ADMIN_EMAIL", "")

	t.Setenv("S3_BUCKET_NAME", "images")
	t.Setenv("S3_ENDPOINT", "")
	_, err = LoadConfig()
	assert.Error(t, err)
	t.Setenv("S3_BUCKET_NAME", "")

	t.Setenv("WS_SEND_BUFFER", "0")
	_, err = LoadConfig()
	assert.Error(t, err)
}
