package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Set test environment variables
	os.Setenv("SERVER_PORT", "8081")
	os.Setenv("ADS_API_URL", "http://ads.internal:3001")
	os.Setenv("ADS_API_TIMEOUT_SECONDS", "5")
	os.Setenv("CATALOG_PAGE_SIZE", "20")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_USER", "testuser")
	os.Setenv("REDIS_PORT", "6380")
	os.Setenv("JWT_SECRET", "test-secret")

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Assertions
	assert.NotNil(t, cfg)
	assert.Equal(t, "8081", cfg.ServerPort)
	assert.Equal(t, "http://ads.internal:3001", cfg.AdsAPIURL)
	assert.Equal(t, 5*time.Second, cfg.AdsAPITimeout)
	assert.Equal(t, 20, cfg.CatalogPageSize)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "testuser", cfg.DBUser)
	assert.Equal(t, "6380", cfg.RedisPort)
	assert.Equal(t, "test-secret", cfg.JWTSecret)

	// Cleanup
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("ADS_API_URL")
	os.Unsetenv("ADS_API_TIMEOUT_SECONDS")
	os.Unsetenv("CATALOG_PAGE_SIZE")
	os.Unsetenv("DB_HOST")
	os.Unsetenv("DB_USER")
	os.Unsetenv("REDIS_PORT")
	os.Unsetenv("JWT_SECRET")
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Clear environment variables
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("CATALOG_PAGE_SIZE")
	os.Unsetenv("CATALOG_FETCH_LIMIT")
	os.Unsetenv("CATALOG_CACHE_TTL_SECONDS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 10, cfg.CatalogPageSize)
	assert.Equal(t, 1000, cfg.CatalogFetchLimit)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
}

func TestLoadConfig_InvalidNumber(t *testing.T) {
	os.Setenv("CATALOG_FETCH_LIMIT", "lots")
	defer os.Unsetenv("CATALOG_FETCH_LIMIT")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadConfig_NonPositivePageSize(t *testing.T) {
	os.Setenv("CATALOG_PAGE_SIZE", "0")
	defer os.Unsetenv("CATALOG_PAGE_SIZE")

	_, err := Load()
	assert.Error(t, err)
}
