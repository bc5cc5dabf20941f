//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/testhelpers"
)

func cacheEntry(version, itemID, content string) *models.CacheEntry {
	return &models.CacheEntry{
		Version:  version,
		ItemID:   itemID,
		Category: "Licensing",
		Title:    "Business license",
		Content:  content,
		Language: models.LanguageKorean,
	}
}

func TestCacheRepositoryUpsertOverwrites(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewCacheRepository(tdb.DB)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.CacheTypeAdvice, cacheEntry("v1", "PRE-1.1", "first draft")))
	require.NoError(t, repo.Upsert(ctx, models.CacheTypeAdvice, cacheEntry("v1", "PRE-1.1", "second draft")))

	entries, err := repo.GetByVersion(ctx, models.CacheTypeAdvice, "v1", models.LanguageKorean)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "second draft", entries[0].Content)
}

func TestCacheRepositoryTypesAreSeparate(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewCacheRepository(tdb.DB)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.CacheTypeAdvice, cacheEntry("v1", "PRE-1.1", "advice")))
	require.NoError(t, repo.Upsert(ctx, models.CacheTypeEvidence, cacheEntry("v1", "PRE-1.1", "evidence")))

	advice, err := repo.GetEntry(ctx, models.CacheTypeAdvice, "v1", "PRE-1.1", models.LanguageKorean)
	require.NoError(t, err)
	assert.Equal(t, "advice", advice.Content)

	evidence, err := repo.GetEntry(ctx, models.CacheTypeEvidence, "v1", "PRE-1.1", models.LanguageKorean)
	require.NoError(t, err)
	assert.Equal(t, "evidence", evidence.Content)
}

func TestCacheRepositoryActiveVersionPointer(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewCacheRepository(tdb.DB)
	ctx := context.Background()

	active, err := repo.GetActiveVersion(ctx, models.CacheTypeAdvice, models.LanguageKorean)
	require.NoError(t, err)
	assert.Nil(t, active)

	require.NoError(t, repo.SetActiveVersion(ctx, models.CacheTypeAdvice, "v1", models.LanguageKorean))

	active, err = repo.GetActiveVersion(ctx, models.CacheTypeAdvice, models.LanguageKorean)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "v1", active.Version)

	// Re-pointing replaces, never stacks.
	require.NoError(t, repo.SetActiveVersion(ctx, models.CacheTypeAdvice, "v2", models.LanguageKorean))
	active, err = repo.GetActiveVersion(ctx, models.CacheTypeAdvice, models.LanguageKorean)
	require.NoError(t, err)
	assert.Equal(t, "v2", active.Version)
}

func TestCacheRepositoryClearActiveVersion(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewCacheRepository(tdb.DB)
	ctx := context.Background()

	require.NoError(t, repo.SetActiveVersion(ctx, models.CacheTypeAdvice, "v1", models.LanguageKorean))
	require.NoError(t, repo.SetActiveVersion(ctx, models.CacheTypeAdvice, "v1", models.LanguageEnglish))
	require.NoError(t, repo.SetActiveVersion(ctx, models.CacheTypeAdvice, "v2", "ja"))

	require.NoError(t, repo.ClearActiveVersion(ctx, models.CacheTypeAdvice, "v1"))

	ko, err := repo.GetActiveVersion(ctx, models.CacheTypeAdvice, models.LanguageKorean)
	require.NoError(t, err)
	assert.Nil(t, ko)

	ja, err := repo.GetActiveVersion(ctx, models.CacheTypeAdvice, "ja")
	require.NoError(t, err)
	require.NotNil(t, ja)
	assert.Equal(t, "v2", ja.Version)
}

func TestCacheRepositoryDeleteVersion(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewCacheRepository(tdb.DB)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.CacheTypeAdvice, cacheEntry("v1", "PRE-1.1", "a")))
	require.NoError(t, repo.Upsert(ctx, models.CacheTypeAdvice, cacheEntry("v1", "PRE-1.2", "b")))
	require.NoError(t, repo.Upsert(ctx, models.CacheTypeAdvice, cacheEntry("v2", "PRE-1.1", "c")))

	deleted, err := repo.DeleteVersion(ctx, models.CacheTypeAdvice, "v1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = repo.DeleteVersion(ctx, models.CacheTypeAdvice, "gone")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestCacheRepositoryListVersions(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewCacheRepository(tdb.DB)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.CacheTypeAdvice, cacheEntry("v1", "PRE-1.1", "a")))
	require.NoError(t, repo.Upsert(ctx, models.CacheTypeAdvice, cacheEntry("v1", "PRE-1.2", "b")))
	require.NoError(t, repo.Upsert(ctx, models.CacheTypeAdvice, cacheEntry("v2", "PRE-1.1", "c")))

	versions, err := repo.ListVersions(ctx, models.CacheTypeAdvice)
	require.NoError(t, err)
	require.Len(t, versions, 2)

	counts := map[string]int{}
	for _, v := range versions {
		counts[v.Version] = v.ItemCount
	}
	assert.Equal(t, 2, counts["v1"])
	assert.Equal(t, 1, counts["v2"])
}
