package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

func TestLoad_NoFileReturnsDefaults(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), settings)
}

func TestSaveAndLoad(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings := domain.DefaultAppSettings()
	settings.Retrieval.TopK = 8
	settings.Retrieval.MMR = true
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
		APIKey:   "sk-test",
	}
	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSave_FileMode(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(domain.DefaultAppSettings()))

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	content := "[retrieval]\ntop_k = 7\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0600))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 7, settings.Retrieval.TopK)
	// Untouched sections keep defaults.
	assert.Equal(t, 2000, settings.Chunking.MaxChars)
}

func TestLoad_CorruptFile(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), []byte("not = [valid"), 0600))

	settings, err := store.Load()
	assert.Error(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), settings)
}
