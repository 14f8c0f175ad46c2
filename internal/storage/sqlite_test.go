package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workshopkit/wrench/internal/common"
	"github.com/workshopkit/wrench/internal/model"
	"github.com/workshopkit/wrench/internal/storage"
	"github.com/workshopkit/wrench/internal/testutil"
)

func TestNewSQLiteStorageRejectsEmptyPath(t *testing.T) {
	_, err := storage.NewSQLiteStorage("")
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := testutil.SetupTestDB(t)

	// SetupTestDB already migrated once; a second run must be a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestCreateCategory(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, model.DimensionParts, "Filters", "#007bff")
	require.NoError(t, err)
	assert.Positive(t, cat.ID)
	assert.Equal(t, model.DimensionParts, cat.Dimension)
	assert.Equal(t, "Filters", cat.Name)
	assert.Equal(t, "#007bff", cat.Color)
	assert.True(t, cat.IsActive)

	// Default color when none given.
	other, err := store.CreateCategory(ctx, model.DimensionParts, "Hoses", "")
	require.NoError(t, err)
	assert.Equal(t, "#6c757d", other.Color)
}

func TestCreateCategoryDuplicate(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, model.DimensionParts, "Filters", "#007bff")
	require.NoError(t, err)

	_, err = store.CreateCategory(ctx, model.DimensionParts, "Filters", "#007bff")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	// Same name in the other dimension is fine.
	_, err = store.CreateCategory(ctx, model.DimensionLabor, "Filters", "#007bff")
	assert.NoError(t, err)
}

func TestCreateCategoryReactivatesDeactivated(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, model.DimensionParts, "Filters", "#007bff")
	require.NoError(t, err)
	require.NoError(t, store.DeactivateCategory(ctx, cat.ID))

	revived, err := store.CreateCategory(ctx, model.DimensionParts, "Filters", "#112233")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, revived.ID, "reactivation must reuse the original row")
	assert.True(t, revived.IsActive)
	assert.Equal(t, "#112233", revived.Color)
}

func TestDeactivateCategoryNotFound(t *testing.T) {
	store := testutil.SetupTestDB(t)

	err := store.DeactivateCategory(context.Background(), 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetCategoryByName(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	created, err := store.CreateCategory(ctx, model.DimensionLabor, "Welding", "#6c757d")
	require.NoError(t, err)

	found, err := store.GetCategoryByName(ctx, model.DimensionLabor, "Welding")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := store.GetCategoryByName(ctx, model.DimensionLabor, "Painting")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAddKeyword(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, model.DimensionParts, "Filters", "#007bff")
	require.NoError(t, err)

	kw, err := store.AddKeyword(ctx, cat.ID, "filter", []string{"strainer", "filtro"}, 1.2)
	require.NoError(t, err)
	assert.Positive(t, kw.ID)
	assert.Equal(t, cat.ID, kw.CategoryID)
	assert.Equal(t, 1.2, kw.Weight)

	keywords, err := store.GetKeywords(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, keywords, 1)
	assert.Equal(t, "filter", keywords[0].Literal)
	assert.Equal(t, []string{"strainer", "filtro"}, keywords[0].Synonyms)
}

func TestAddKeywordValidation(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, model.DimensionParts, "Filters", "#007bff")
	require.NoError(t, err)

	_, err = store.AddKeyword(ctx, cat.ID, "filter", nil, 0)
	assert.ErrorIs(t, err, common.ErrInvalidKeyword)

	_, err = store.AddKeyword(ctx, 999, "filter", nil, 1.0)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Nil synonyms round-trip as an empty slice, not null.
	kw, err := store.AddKeyword(ctx, cat.ID, "filter", nil, 1.0)
	require.NoError(t, err)
	assert.NotNil(t, kw.Synonyms)

	keywords, err := store.GetKeywords(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, keywords, 1)
	assert.Empty(t, keywords[0].Synonyms)
}

func TestDeactivateKeyword(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, model.DimensionParts, "Filters", "#007bff")
	require.NoError(t, err)
	kw, err := store.AddKeyword(ctx, cat.ID, "filter", nil, 1.0)
	require.NoError(t, err)

	require.NoError(t, store.DeactivateKeyword(ctx, kw.ID))

	keywords, err := store.GetKeywords(ctx, cat.ID)
	require.NoError(t, err)
	assert.Empty(t, keywords)

	assert.ErrorIs(t, store.DeactivateKeyword(ctx, 999), common.ErrNotFound)
}

func TestLoadRules(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	filters, err := store.CreateCategory(ctx, model.DimensionParts, "Filters", "#007bff")
	require.NoError(t, err)
	_, err = store.AddKeyword(ctx, filters.ID, "filter", []string{"strainer"}, 1.0)
	require.NoError(t, err)

	welding, err := store.CreateCategory(ctx, model.DimensionLabor, "Welding", "#6c757d")
	require.NoError(t, err)
	_, err = store.AddKeyword(ctx, welding.ID, "welding", []string{"soldadura"}, 1.2)
	require.NoError(t, err)

	categories, keywords, err := store.LoadRules(ctx, model.DimensionParts)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Filters", categories[0].Name)
	require.Len(t, keywords, 1)
	assert.Equal(t, "filter", keywords[0].Literal)
	assert.Equal(t, []string{"strainer"}, keywords[0].Synonyms)
}

func TestLoadRulesExcludesInactive(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, model.DimensionParts, "Filters", "#007bff")
	require.NoError(t, err)
	_, err = store.AddKeyword(ctx, cat.ID, "filter", nil, 1.0)
	require.NoError(t, err)
	inactive, err := store.AddKeyword(ctx, cat.ID, "strainer", nil, 1.0)
	require.NoError(t, err)
	require.NoError(t, store.DeactivateKeyword(ctx, inactive.ID))

	hidden, err := store.CreateCategory(ctx, model.DimensionParts, "Old Parts", "")
	require.NoError(t, err)
	_, err = store.AddKeyword(ctx, hidden.ID, "obsolete", nil, 1.0)
	require.NoError(t, err)
	require.NoError(t, store.DeactivateCategory(ctx, hidden.ID))

	categories, keywords, err := store.LoadRules(ctx, model.DimensionParts)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Len(t, keywords, 1)
	assert.Equal(t, "filter", keywords[0].Literal)
}

func TestSeed(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx))

	for _, dim := range model.Dimensions() {
		categories, keywords, err := store.LoadRules(ctx, dim)
		require.NoError(t, err)
		assert.NotEmpty(t, categories, "dimension %s", dim)
		assert.NotEmpty(t, keywords, "dimension %s", dim)
	}

	// Seeding again must not duplicate anything.
	before, _, err := store.LoadRules(ctx, model.DimensionParts)
	require.NoError(t, err)
	require.NoError(t, store.Seed(ctx))
	after, _, err := store.LoadRules(ctx, model.DimensionParts)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

func TestSaveAndGetClassifications(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, model.DimensionParts, "Filters", "#007bff")
	require.NoError(t, err)

	records := []model.ClassificationRecord{
		{
			SourceID:     42,
			OriginalText: "replaced the oil filter",
			Dimension:    model.DimensionParts,
			CategoryID:   cat.ID,
			MatchedTexts: []string{"filter"},
			KeywordIDs:   []int64{1},
			Confidence:   100,
		},
	}
	require.NoError(t, store.SaveClassifications(ctx, records))

	got, err := store.GetClassifications(ctx, 42)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].SourceID)
	assert.Equal(t, "replaced the oil filter", got[0].OriginalText)
	assert.Equal(t, model.DimensionParts, got[0].Dimension)
	assert.Equal(t, []string{"filter"}, got[0].MatchedTexts)
	assert.Equal(t, []int64{1}, got[0].KeywordIDs)
	assert.Equal(t, 100.0, got[0].Confidence)

	other, err := store.GetClassifications(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSaveClassificationsValidation(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	assert.Error(t, store.SaveClassifications(ctx, nil))
	assert.Error(t, store.SaveClassifications(ctx, []model.ClassificationRecord{{}}))
}
