package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("SHOPIFY_STORE", "example.myshopify.com")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_test")
	t.Setenv("SPREADSHEET_ID", "sheet-123")
}

func TestLoad(t *testing.T) {
	t.Run("missing required variable", func(t *testing.T) {
		t.Setenv("SHOPIFY_STORE", "")
		t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_test")
		t.Setenv("SPREADSHEET_ID", "sheet-123")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SHOPIFY_STORE")
	})

	t.Run("defaults", func(t *testing.T) {
		setRequired(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "example.myshopify.com", cfg.ShopDomain)
		assert.Equal(t, "2024-04", cfg.APIVersion)
		assert.Equal(t, 120*24*time.Hour, cfg.FetchWindow)
		assert.Equal(t, 31, cfg.MatchWindowDays)
		assert.Equal(t, 30, cfg.RetentionDays)
		assert.Equal(t, 250, cfg.PageSize)
		assert.Equal(t, 2500*time.Millisecond, cfg.UploadPause)
		assert.Equal(t, 3, cfg.RetryAttempts)
		assert.Equal(t, 10*time.Second, cfg.RetryBackoff)
		assert.Equal(t, "sheets_token.json", cfg.TokenPath)
	})

	t.Run("overrides", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SHOPIFY_API_VERSION", "2025-01")
		t.Setenv("GOOGLE_TOKEN_PATH", "/tmp/token.json")
		t.Setenv("CATALOG_PATH", "catalog.yaml")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "2025-01", cfg.APIVersion)
		assert.Equal(t, "/tmp/token.json", cfg.TokenPath)
		assert.Equal(t, "catalog.yaml", cfg.CatalogPath)
	})
}
