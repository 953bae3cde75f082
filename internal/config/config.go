package config

import (
	"fmt"
	"os"
	"time"
)

// Config carries every run parameter for a single sync pass. Values are
// resolved from the environment once at startup so the pipeline itself never
// touches os.Getenv.
type Config struct {
	// Shopify source account.
	ShopDomain   string // e.g. example.myshopify.com
	ShopifyToken string
	APIVersion   string

	// Google Sheets destination document.
	SpreadsheetID string

	// OAuth material for the Sheets API. Both values are base64-encoded JSON
	// blobs; TokenPath is the on-disk fallback when the env var is absent.
	GoogleCredentialsB64 string
	GoogleTokenB64       string
	TokenPath            string

	// Optional YAML file overriding the built-in tray catalog.
	CatalogPath string

	// Fixed windows. These are implementation parameters, not user-tunable,
	// but they live here so tests can shrink them.
	FetchWindow     time.Duration // updated_at_min reaches this far back
	MatchWindowDays int           // tag date must be within this many days of now
	RetentionDays   int           // tabs older than this are prune candidates

	PageSize      int
	UploadPause   time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration

	// Optional Mailgun notification channel.
	MailgunDomain string
	MailgunAPIKey string
	NotifyTo      string
}

// Required environment variables checked at startup.
var requiredEnvVars = []string{
	"SHOPIFY_STORE",
	"SHOPIFY_ACCESS_TOKEN",
	"SPREADSHEET_ID",
}

// Load builds a Config from the environment. It returns an error naming the
// first missing required variable rather than failing deep inside the run.
func Load() (*Config, error) {
	for _, name := range requiredEnvVars {
		if os.Getenv(name) == "" {
			return nil, fmt.Errorf("required environment variable %s is not set", name)
		}
	}

	cfg := &Config{
		ShopDomain:   os.Getenv("SHOPIFY_STORE"),
		ShopifyToken: os.Getenv("SHOPIFY_ACCESS_TOKEN"),
		APIVersion:   getEnv("SHOPIFY_API_VERSION", "2024-04"),

		SpreadsheetID: os.Getenv("SPREADSHEET_ID"),

		GoogleCredentialsB64: os.Getenv("GOOGLE_CREDENTIALS_BASE64"),
		GoogleTokenB64:       os.Getenv("GOOGLE_TOKEN_BASE64"),
		TokenPath:            getEnv("GOOGLE_TOKEN_PATH", "sheets_token.json"),

		CatalogPath: os.Getenv("CATALOG_PATH"),

		FetchWindow:     120 * 24 * time.Hour,
		MatchWindowDays: 31,
		RetentionDays:   30,

		PageSize:      250,
		UploadPause:   2500 * time.Millisecond,
		RetryAttempts: 3,
		RetryBackoff:  10 * time.Second,

		MailgunDomain: os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey: os.Getenv("MAIL_API_KEY"),
		NotifyTo:      os.Getenv("NOTIFICATION_EMAIL_TO"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
