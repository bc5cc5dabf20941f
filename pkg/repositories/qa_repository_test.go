//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mspcompass/compass-engine/pkg/models"
	"github.com/mspcompass/compass-engine/pkg/testhelpers"
)

func TestQARepositoryCreateAndList(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewQARepository(tdb.DB)
	ctx := context.Background()

	user := createTestUser(t, tdb, "asker@example.com")

	first := &models.QAEntry{ItemID: "PRE-1.1", UserID: user.ID, Question: "What counts as a license?"}
	second := &models.QAEntry{ItemID: "PRE-1.1", UserID: user.ID, Question: "Does a provisional one qualify?"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, &models.QAEntry{ItemID: "TEC-1.1", UserID: user.ID, Question: "Other item"}))

	entries, err := repo.ListByItem(ctx, "PRE-1.1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Oldest first.
	assert.Equal(t, first.ID, entries[0].ID)
}

func TestQARepositoryAnswer(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewQARepository(tdb.DB)
	ctx := context.Background()

	asker := createTestUser(t, tdb, "question@example.com")
	admin := createTestUser(t, tdb, "answerer@example.com")

	entry := &models.QAEntry{ItemID: "PRE-1.1", UserID: asker.ID, Question: "How do I prove this?"}
	require.NoError(t, repo.Create(ctx, entry))

	require.NoError(t, repo.Answer(ctx, entry.ID, "Attach the registration certificate.", admin.ID))

	entries, err := repo.ListByItem(ctx, "PRE-1.1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Attach the registration certificate.", entries[0].Answer)
	require.NotNil(t, entries[0].AnsweredBy)
	assert.Equal(t, admin.ID, *entries[0].AnsweredBy)
	assert.NotNil(t, entries[0].AnsweredAt)
}

func TestQARepositoryDeleteFilteredByUser(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewQARepository(tdb.DB)
	ctx := context.Background()

	alice := createTestUser(t, tdb, "alice-qa@example.com")
	bob := createTestUser(t, tdb, "bob-qa@example.com")

	require.NoError(t, repo.Create(ctx, &models.QAEntry{ItemID: "PRE-1.1", UserID: alice.ID, Question: "A?"}))
	require.NoError(t, repo.Create(ctx, &models.QAEntry{ItemID: "PRE-1.1", UserID: bob.ID, Question: "B?"}))

	deleted, err := repo.DeleteFiltered(ctx, &models.SelectionCriteria{UserIDs: []uuid.UUID{alice.ID}})
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, alice.ID, deleted[0].UserID)

	remaining, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, bob.ID, remaining[0].UserID)
}
