// preload-cache generates a fresh advice or evidence cache version for
// every checklist item and optionally activates it.
//
// Usage: go run ./scripts/preload-cache <advice|evidence> [lang...]
//
// Flags via environment: AI_PROVIDER selects the backend, ACTIVATE=true
// activates the new version after generation.
// Database connection: uses standard PG* environment variables.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/config"
	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/llm"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/repositories"
	"github.com/mspcompass/compass-engine/pkg/services"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: preload-cache <advice|evidence> [lang...]")
		os.Exit(1)
	}
	cacheType := models.CacheType(os.Args[1])
	if !models.IsValidCacheType(cacheType) {
		fmt.Fprintf(os.Stderr, "Unknown cache type %q\n", os.Args[1])
		os.Exit(1)
	}

	languages := os.Args[2:]
	if len(languages) == 0 {
		languages = []string{models.LanguageKorean}
	}

	if err := run(cacheType, languages); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cacheType models.CacheType, languages []string) error {
	cfg, err := config.Load("dev")
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{URL: cfg.Database.ConnectionString()})
	if err != nil {
		return err
	}
	defer db.Close()

	cacheRepo := repositories.NewCacheRepository(db)
	cacheService := services.NewCacheVersionService(db, cacheRepo, logger)

	factory := llm.NewFactory(&cfg.AI, logger)
	generator, err := factory.Create(ctx, cfg.AI.Provider)
	if err != nil {
		return err
	}

	version := cacheService.GenerateVersionID(cacheType, "", languages[0], cfg.AI.Provider)
	fmt.Printf("Generating %s cache version %s (%d items x %d languages)\n",
		cacheType, version, len(models.Checklist), len(languages))

	result, err := cacheService.GenerateBatch(ctx, cacheType, version, languages, generator)
	if err != nil {
		return err
	}

	fmt.Printf("Done: %d succeeded, %d failed\n", result.SuccessCount, result.ErrorCount)
	for _, e := range result.Errors {
		fmt.Printf("  FAILED %s [%s]: %s\n", e.ItemID, e.Language, e.Message)
	}

	if os.Getenv("ACTIVATE") == "true" && result.SuccessCount > 0 {
		for _, lang := range languages {
			if err := cacheService.SetActiveVersion(ctx, cacheType, version, lang); err != nil {
				return fmt.Errorf("failed to activate version for %s: %w", lang, err)
			}
			fmt.Printf("Activated %s for language %s\n", version, lang)
		}
	}
	return nil
}
