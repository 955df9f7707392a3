package config_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synctreeio/synctree/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Session.ID)
	assert.True(t, cfg.Rebase.RequireRelatedBranches)
	assert.True(t, cfg.Rebase.ToOptions().RequireRelated)
	assert.EqualValues(t, 100_000, cfg.Enrich.ApproxCommits)
}

func TestDecodeFillsOmittedFieldsFromDefaults(t *testing.T) {
	doc := `
[session]
id = "fixed-session"

[rebase]
require_related_branches = false
`
	cfg, err := config.Decode(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "fixed-session", cfg.Session.ID)
	assert.False(t, cfg.Rebase.RequireRelatedBranches)
	// Enrich section was omitted entirely: still defaulted.
	assert.EqualValues(t, 100_000, cfg.Enrich.ApproxCommits)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synctree.toml")

	cfg := config.Default()
	cfg.Session.ID = "roundtrip-session"
	cfg.Enrich.ApproxCommits = 42

	require.NoError(t, config.Save(path, cfg))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "roundtrip-session", loaded.Session.ID)
	assert.EqualValues(t, 42, loaded.Enrich.ApproxCommits)
}
