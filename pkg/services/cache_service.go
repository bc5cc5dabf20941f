package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/apperrors"
	"github.com/mspcompass/compass-engine/pkg/database"
	"github.com/mspcompass/compass-engine/pkg/llm"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/repositories"
)

// interItemDelay spaces out provider calls during batch generation to
// stay under per-minute rate limits.
const interItemDelay = 500 * time.Millisecond

// BatchError records a single failed item during batch generation.
type BatchError struct {
	ItemID   string `json:"itemId"`
	Language string `json:"language"`
	Message  string `json:"message"`
}

// BatchResult summarizes a batch generation run. A run with failures
// still persists every successful entry.
type BatchResult struct {
	Version      string       `json:"version"`
	SuccessCount int          `json:"successCount"`
	ErrorCount   int          `json:"errorCount"`
	Errors       []BatchError `json:"errors,omitempty"`
}

// CacheVersionService manages versioned AI content caches (advice and
// virtual evidence) and the pointer to the active version per language.
type CacheVersionService interface {
	// GenerateVersionID builds a unique, human-readable version
	// identifier. sourceVersion is empty for fresh generations.
	GenerateVersionID(cacheType models.CacheType, sourceVersion, language, provider string) string

	SaveEntry(ctx context.Context, cacheType models.CacheType, entry *models.CacheEntry) error
	ListVersions(ctx context.Context, cacheType models.CacheType) ([]models.CacheVersionInfo, error)
	GetVersion(ctx context.Context, cacheType models.CacheType, version, language string) ([]models.CacheEntry, error)

	ActiveVersion(ctx context.Context, cacheType models.CacheType, language string) (*models.ActiveCacheVersion, error)
	SetActiveVersion(ctx context.Context, cacheType models.CacheType, version, language string) error

	// DeleteVersion removes all entries of a version and clears any
	// active pointer that referenced it, atomically.
	DeleteVersion(ctx context.Context, cacheType models.CacheType, version string) (int64, error)

	// GetActiveEntry resolves a single item through the active version
	// pointer. Returns nil when no active version is set or the item is
	// missing from it.
	GetActiveEntry(ctx context.Context, cacheType models.CacheType, itemID, language string) (*models.CacheEntry, error)

	// GenerateBatch generates content for every checklist item in each
	// requested language and stores it under version. Individual item
	// failures are collected, not fatal.
	GenerateBatch(ctx context.Context, cacheType models.CacheType, version string, languages []string, gen llm.TextGenerator) (*BatchResult, error)
}

type cacheVersionService struct {
	db     database.TxRunner
	caches repositories.CacheRepository
	logger *zap.Logger

	// itemDelay is overridable in tests.
	itemDelay time.Duration
}

// NewCacheVersionService creates a new CacheVersionService.
func NewCacheVersionService(db database.TxRunner, caches repositories.CacheRepository, logger *zap.Logger) CacheVersionService {
	return &cacheVersionService{
		db:        db,
		caches:    caches,
		logger:    logger.Named("cache-service"),
		itemDelay: interItemDelay,
	}
}

var _ CacheVersionService = (*cacheVersionService)(nil)

func (s *cacheVersionService) GenerateVersionID(cacheType models.CacheType, sourceVersion, language, provider string) string {
	source := "new"
	if sourceVersion != "" {
		source = sourceVersion
	}
	ts := time.Now().UTC().Format("20060102-150405")
	return fmt.Sprintf("%s-%s-%s-%s-%s", cacheType, source, language, ts, provider)
}

func (s *cacheVersionService) SaveEntry(ctx context.Context, cacheType models.CacheType, entry *models.CacheEntry) error {
	if entry.Version == "" || entry.ItemID == "" || entry.Language == "" {
		return fmt.Errorf("version, item id and language are required: %w", apperrors.ErrValidation)
	}
	return s.caches.Upsert(ctx, cacheType, entry)
}

func (s *cacheVersionService) ListVersions(ctx context.Context, cacheType models.CacheType) ([]models.CacheVersionInfo, error) {
	return s.caches.ListVersions(ctx, cacheType)
}

func (s *cacheVersionService) GetVersion(ctx context.Context, cacheType models.CacheType, version, language string) ([]models.CacheEntry, error) {
	return s.caches.GetByVersion(ctx, cacheType, version, language)
}

func (s *cacheVersionService) ActiveVersion(ctx context.Context, cacheType models.CacheType, language string) (*models.ActiveCacheVersion, error) {
	return s.caches.GetActiveVersion(ctx, cacheType, language)
}

func (s *cacheVersionService) SetActiveVersion(ctx context.Context, cacheType models.CacheType, version, language string) error {
	entries, err := s.caches.GetByVersion(ctx, cacheType, version, language)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("version %s has no entries for language %s: %w", version, language, apperrors.ErrNotFound)
	}
	if err := s.caches.SetActiveVersion(ctx, cacheType, version, language); err != nil {
		return err
	}
	s.logger.Info("Activated cache version",
		zap.String("cache_type", string(cacheType)),
		zap.String("version", version),
		zap.String("language", language))
	return nil
}

func (s *cacheVersionService) DeleteVersion(ctx context.Context, cacheType models.CacheType, version string) (int64, error) {
	var deleted int64
	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.caches.DeleteVersion(ctx, cacheType, version)
		if err != nil {
			return err
		}
		// A dangling active pointer would break lookups.
		return s.caches.ClearActiveVersion(ctx, cacheType, version)
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("Deleted cache version",
		zap.String("cache_type", string(cacheType)),
		zap.String("version", version),
		zap.Int64("entries", deleted))
	return deleted, nil
}

func (s *cacheVersionService) GetActiveEntry(ctx context.Context, cacheType models.CacheType, itemID, language string) (*models.CacheEntry, error) {
	active, err := s.caches.GetActiveVersion(ctx, cacheType, language)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, nil
	}
	return s.caches.GetEntry(ctx, cacheType, active.Version, itemID, language)
}

func (s *cacheVersionService) GenerateBatch(ctx context.Context, cacheType models.CacheType, version string, languages []string, gen llm.TextGenerator) (*BatchResult, error) {
	if version == "" {
		return nil, fmt.Errorf("version is required: %w", apperrors.ErrValidation)
	}
	if len(languages) == 0 {
		languages = []string{models.LanguageKorean}
	}

	result := &BatchResult{Version: version}
	total := len(models.Checklist) * len(languages)
	s.logger.Info("Starting batch generation",
		zap.String("cache_type", string(cacheType)),
		zap.String("version", version),
		zap.Int("items", total),
		zap.String("provider", gen.Provider()),
		zap.String("model", gen.Model()))

	first := true
	for _, def := range models.Checklist {
		for _, lang := range languages {
			if !first {
				select {
				case <-ctx.Done():
					return result, ctx.Err()
				case <-time.After(s.itemDelay):
				}
			}
			first = false

			prompt, system := buildCachePrompt(cacheType, def, lang)
			gr, err := gen.Generate(ctx, prompt, system, llm.GenerateOptions{})
			if err != nil {
				s.logger.Warn("Item generation failed",
					zap.String("item_id", def.ItemID),
					zap.String("language", lang),
					zap.Error(err))
				result.ErrorCount++
				result.Errors = append(result.Errors, BatchError{
					ItemID:   def.ItemID,
					Language: lang,
					Message:  err.Error(),
				})
				continue
			}

			entry := &models.CacheEntry{
				Version:  version,
				ItemID:   def.ItemID,
				Category: def.Category,
				Title:    def.Title,
				Language: lang,
				Content:  strings.TrimSpace(gr.Content),
			}
			if err := s.caches.Upsert(ctx, cacheType, entry); err != nil {
				result.ErrorCount++
				result.Errors = append(result.Errors, BatchError{
					ItemID:   def.ItemID,
					Language: lang,
					Message:  err.Error(),
				})
				continue
			}
			result.SuccessCount++
		}
	}

	s.logger.Info("Batch generation finished",
		zap.String("version", version),
		zap.Int("succeeded", result.SuccessCount),
		zap.Int("failed", result.ErrorCount))
	return result, nil
}

// buildCachePrompt renders the generation prompt for one checklist item.
func buildCachePrompt(cacheType models.CacheType, def models.ChecklistItemDef, language string) (prompt, system string) {
	langName := "Korean"
	if language == models.LanguageEnglish {
		langName = "English"
	}

	switch cacheType {
	case models.CacheTypeEvidence:
		system = "You are a compliance auditor for AWS Managed Service Provider certification. " +
			"Produce a realistic example evidence document that would satisfy the given checklist item. " +
			"Answer in " + langName + "."
		prompt = fmt.Sprintf(
			"Checklist item %s (%s): %s\n\n%s\n\nWrite a concise example evidence document an MSP could adapt.",
			def.ItemID, def.Category, def.Title, def.Description)
	default:
		system = "You are a consultant helping companies prepare for AWS Managed Service Provider certification. " +
			"Give practical, actionable advice for the given checklist item. " +
			"Answer in " + langName + "."
		prompt = fmt.Sprintf(
			"Checklist item %s (%s): %s\n\n%s\n\nExplain what the item requires and how to prepare for it.",
			def.ItemID, def.Category, def.Title, def.Description)
	}
	return prompt, system
}
