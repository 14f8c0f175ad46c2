package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSourceID(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantID   int64
		wantDesc string
		wantOK   bool
	}{
		{
			name:     "id prefix",
			line:     "42\treplaced filter",
			wantID:   42,
			wantDesc: "replaced filter",
			wantOK:   true,
		},
		{
			name: "no tab",
			line: "replaced filter",
		},
		{
			name: "trailing garbage after id",
			line: "42abc\treplaced filter",
		},
		{
			name: "non numeric prefix",
			line: "abc\treplaced filter",
		},
		{
			name: "zero id",
			line: "0\treplaced filter",
		},
		{
			name: "negative id",
			line: "-7\treplaced filter",
		},
		{
			name: "tab first",
			line: "\treplaced filter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, desc, ok := splitSourceID(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestReadBatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.txt")
	content := "42\treplaced the oil filter\n\nsoldadura general\n17abc\tnot an id line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	items, err := readBatchFile(path)
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.NotNil(t, items[0].SourceID)
	assert.Equal(t, int64(42), *items[0].SourceID)
	assert.Equal(t, "replaced the oil filter", items[0].Description)

	assert.Nil(t, items[1].SourceID)
	assert.Equal(t, "soldadura general", items[1].Description)

	// A malformed id prefix stays part of the description.
	assert.Nil(t, items[2].SourceID)
	assert.Equal(t, "17abc\tnot an id line", items[2].Description)
}

func TestReadBatchFileMissing(t *testing.T) {
	_, err := readBatchFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
