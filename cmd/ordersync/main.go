package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Kentroth/instasheets-replacement/internal/config"
	"github.com/Kentroth/instasheets-replacement/internal/notify"
	"github.com/Kentroth/instasheets-replacement/internal/pipeline"
	"github.com/Kentroth/instasheets-replacement/internal/sheets"
	"github.com/Kentroth/instasheets-replacement/internal/shopify"
)

func main() {
	// Load .env files for local runs; deployments rely on real env vars.
	if err := godotenv.Load(".env.local"); err != nil {
		fmt.Println("Info: .env.local file not found, trying .env...")
		if err := godotenv.Load(); err != nil {
			fmt.Println("Info: No .env file found. Using system environment variables.")
		} else {
			fmt.Println("Info: Loaded environment variables from .env")
		}
	} else {
		fmt.Println("Info: Loaded environment variables from .env.local")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	ctx := context.Background()
	notifier := notify.New(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.NotifyTo)

	start := time.Now()
	stats, err := run(ctx, cfg)
	elapsed := time.Since(start).Round(time.Second)

	if err != nil {
		log.Printf("Sync failed after %v: %v", elapsed, err)
		if nerr := notifier.Error(ctx, "Sync failed", fmt.Sprintf("%v\n\n%s\nduration: %v", err, stats, elapsed)); nerr != nil {
			log.Printf("Failed to send email notification: %v", nerr)
		}
		os.Exit(1)
	}

	log.Printf("Sync complete in %v: %s", elapsed, stats)
	if nerr := notifier.Success(ctx, "Sync complete", fmt.Sprintf("%s\nduration: %v", stats, elapsed)); nerr != nil {
		log.Printf("Failed to send email notification: %v", nerr)
	}
}

func run(ctx context.Context, cfg *config.Config) (pipeline.Stats, error) {
	catalog := pipeline.DefaultCatalog()
	if cfg.CatalogPath != "" {
		var err error
		catalog, err = pipeline.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return pipeline.Stats{}, fmt.Errorf("load catalog: %w", err)
		}
	}

	tokenJSON, err := sheets.TokenSource(cfg.GoogleTokenB64, cfg.TokenPath)
	if err != nil {
		return pipeline.Stats{}, err
	}
	credsJSON, err := sheets.DecodeOptional(cfg.GoogleCredentialsB64)
	if err != nil {
		return pipeline.Stats{}, err
	}
	httpClient, err := sheets.AuthClient(ctx, tokenJSON, credsJSON)
	if err != nil {
		return pipeline.Stats{}, err
	}
	dst, err := sheets.New(ctx, cfg.SpreadsheetID, httpClient)
	if err != nil {
		return pipeline.Stats{}, err
	}

	src := shopify.NewClient(cfg.ShopDomain, cfg.ShopifyToken, cfg.APIVersion, cfg.PageSize, cfg.FetchWindow)
	syncer := pipeline.NewSyncer(dst, cfg.RetentionDays, cfg.RetryAttempts, cfg.RetryBackoff, cfg.UploadPause)
	runner := pipeline.NewRunner(src, pipeline.NewFormatter(catalog), syncer, cfg.MatchWindowDays)

	return runner.Run(ctx)
}
