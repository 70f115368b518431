package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("DB_CONNECT_TIMEOUT", "")
	t.Setenv("STORAGE_BUCKET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 30*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, "images", cfg.StorageBucket)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "sqlite:agri.db")
	t.Setenv("DB_CONNECT_TIMEOUT", "5s")
	t.Setenv("ALLOW_CROSS_SITE_DEV", "TRUE")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("STORAGE_BUCKET", "listing-images")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite:agri.db", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
	assert.True(t, cfg.AllowCrossSiteDev)
	assert.Equal(t, "s3", cfg.StorageDriver)
	assert.Equal(t, "listing-images", cfg.S3Bucket)
}
