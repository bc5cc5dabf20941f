package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/config"
	"github.com/mspcompass/compass-engine/pkg/llm"
	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/services"
)

func newTestCacheHandler(cache *mockCacheService) *CacheHandler {
	factory := llm.NewFactory(&config.AIConfig{
		Provider: llm.ProviderOpenAI,
		OpenAI: config.OpenAIConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			APIKey:  "test-key",
		},
	}, zap.NewNop())
	return NewCacheHandler(cache, factory, llm.ProviderOpenAI, zap.NewNop())
}

func TestCacheHandlerGetAdviceNoActiveVersion(t *testing.T) {
	cache := &mockCacheService{
		GetActiveEntryFunc: func(ctx context.Context, cacheType models.CacheType, itemID, language string) (*models.CacheEntry, error) {
			assert.Equal(t, models.CacheTypeAdvice, cacheType)
			assert.Equal(t, "PRE-1.1", itemID)
			assert.Equal(t, models.LanguageKorean, language)
			return nil, nil
		},
	}
	h := newTestCacheHandler(cache)

	req := httptest.NewRequest(http.MethodGet, "/api/advice/PRE-1.1", nil)
	req.SetPathValue("itemId", "PRE-1.1")
	rec := httptest.NewRecorder()
	h.GetAdvice(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCacheHandlerGetEvidenceLanguageOverride(t *testing.T) {
	cache := &mockCacheService{
		GetActiveEntryFunc: func(ctx context.Context, cacheType models.CacheType, itemID, language string) (*models.CacheEntry, error) {
			assert.Equal(t, models.CacheTypeEvidence, cacheType)
			assert.Equal(t, models.LanguageEnglish, language)
			return &models.CacheEntry{Version: "evidence-new-en-1", ItemID: itemID, Content: "sample"}, nil
		},
	}
	h := newTestCacheHandler(cache)

	req := httptest.NewRequest(http.MethodGet, "/api/evidence/TEC-2.1?lang=en", nil)
	req.SetPathValue("itemId", "TEC-2.1")
	rec := httptest.NewRecorder()
	h.GetEvidence(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var entry models.CacheEntry
	decodeBody(t, rec, &entry)
	assert.Equal(t, "sample", entry.Content)
}

func TestCacheHandlerInvalidType(t *testing.T) {
	h := newTestCacheHandler(&mockCacheService{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/cache/bogus/versions", nil)
	req.SetPathValue("type", "bogus")
	rec := httptest.NewRecorder()
	h.ListVersions(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCacheHandlerDeleteVersion(t *testing.T) {
	cache := &mockCacheService{
		DeleteVersionFunc: func(ctx context.Context, cacheType models.CacheType, version string) (int64, error) {
			assert.Equal(t, "advice-new-ko-20250101-120000-openai", version)
			return 36, nil
		},
	}
	h := newTestCacheHandler(cache)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/cache/advice/versions/advice-new-ko-20250101-120000-openai", nil)
	req.SetPathValue("type", "advice")
	req.SetPathValue("version", "advice-new-ko-20250101-120000-openai")
	rec := httptest.NewRecorder()
	h.DeleteVersion(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int64
	decodeBody(t, rec, &resp)
	assert.Equal(t, int64(36), resp["deleted_entries"])
}

func TestCacheHandlerGeneratePartialFailure(t *testing.T) {
	cache := &mockCacheService{
		GenerateBatchFunc: func(ctx context.Context, cacheType models.CacheType, version string, languages []string, gen llm.TextGenerator) (*services.BatchResult, error) {
			assert.Equal(t, []string{models.LanguageKorean}, languages)
			return &services.BatchResult{
				Version:      version,
				SuccessCount: 35,
				ErrorCount:   1,
				Errors:       []services.BatchError{{ItemID: "TEC-1.1", Language: "ko", Message: "rate limited"}},
			}, nil
		},
	}
	h := newTestCacheHandler(cache)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/cache/advice/generate", jsonBody(t, GenerateCacheRequest{}))
	req.SetPathValue("type", "advice")
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	assert.Equal(t, http.StatusMultiStatus, rec.Code)

	var result services.BatchResult
	decodeBody(t, rec, &result)
	assert.Equal(t, 35, result.SuccessCount)
	assert.Len(t, result.Errors, 1)
}

func TestCacheHandlerGenerateUnknownProvider(t *testing.T) {
	h := newTestCacheHandler(&mockCacheService{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/cache/advice/generate", jsonBody(t, GenerateCacheRequest{
		Provider: "carrier-pigeon",
	}))
	req.SetPathValue("type", "advice")
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCacheHandlerActivateVersionDefaultsLanguage(t *testing.T) {
	cache := &mockCacheService{
		SetActiveVersionFunc: func(ctx context.Context, cacheType models.CacheType, version, language string) error {
			assert.Equal(t, models.LanguageKorean, language)
			return nil
		},
	}
	h := newTestCacheHandler(cache)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/cache/advice/versions/v1/activate", jsonBody(t, ActivateVersionRequest{}))
	req.SetPathValue("type", "advice")
	req.SetPathValue("version", "v1")
	rec := httptest.NewRecorder()
	h.ActivateVersion(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
