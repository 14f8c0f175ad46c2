package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempDatabase(t *testing.T) {
	t.Helper()
	viper.Set("database.path", filepath.Join(t.TempDir(), "wrench.db"))
	t.Cleanup(func() { viper.Set("database.path", "") })
}

func TestNewEngineMigratesFreshDatabase(t *testing.T) {
	useTempDatabase(t)
	ctx := context.Background()

	eng, store, err := newEngine(ctx)
	require.NoError(t, err)
	defer store.Close()

	// A fresh database has no rules yet, but analysis must succeed with
	// an empty result instead of failing on missing tables.
	result, err := eng.Analyze(ctx, "replaced the oil filter", nil)
	require.NoError(t, err)
	assert.Zero(t, result.TotalDetections)
	assert.Nil(t, result.OverallConfidence)
}

func TestNewEngineAnalyzesSeededRules(t *testing.T) {
	useTempDatabase(t)
	ctx := context.Background()

	eng, store, err := newEngine(ctx)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Seed(ctx))

	result, err := eng.Analyze(ctx, "cambio de filtro de aceite", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.PartsDetected)
	assert.NotEmpty(t, result.LaborDetected)
}
