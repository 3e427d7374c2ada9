package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultEmbeddingModel, cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, DefaultCompletionModel, cfg.OpenAI.CompletionModel)
	assert.Equal(t, DefaultTopK, cfg.Index.TopK)
	assert.Equal(t, DefaultFuzzyThreshold, cfg.Parser.FuzzyThreshold)
	assert.Equal(t, DefaultFirstPages, cfg.Parser.FirstPages)
	assert.Equal(t, OutputFormatText, cfg.OutputFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, cfg.Index.TopK)
	// The missing-file path validates just like the file-present path.
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromPath_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
openai:
  embedding_model: text-embedding-3-large
  completion_model: gpt-4o-mini
  request_timeout: 30s
index:
  dir: ` + dir + `
  top_k: 8
  clear_max_attempts: 3
  clear_initial_backoff: 250ms
parser:
  fuzzy_threshold: 80
  first_pages: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfigFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "text-embedding-3-large", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.CompletionModel)
	assert.Equal(t, 30*time.Second, cfg.OpenAI.RequestTimeout)
	assert.Equal(t, 8, cfg.Index.TopK)
	assert.Equal(t, 3, cfg.Index.ClearMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Index.ClearInitialBackoff)
	assert.Equal(t, 80, cfg.Parser.FuzzyThreshold)
	assert.Equal(t, 3, cfg.Parser.FirstPages)
}

func TestLoadConfigFromPath_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ECA_INDEX_DIR", "/tmp/eca-test-index")

	cfg, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "/tmp/eca-test-index", cfg.Index.Dir)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parser.FuzzyThreshold = 150
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Index.TopK = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.OutputFormat = "xml"
	assert.Error(t, cfg.Validate())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Index.TopK = 7
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfigFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Index.TopK)
}
