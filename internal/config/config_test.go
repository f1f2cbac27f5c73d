package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Provider.Type)
	require.NotNil(t, cfg.Provider.Ollama)
	assert.Equal(t, "http://localhost:11434", cfg.Provider.Ollama.BaseURL)
	assert.Equal(t, "nomic-embed-text", cfg.Provider.Ollama.EmbedModel)
	assert.Equal(t, "llama3", cfg.Provider.Ollama.GenerateModel)
	assert.Equal(t, 45, cfg.Provider.Ollama.EmbedTimeoutSecs)
	assert.Equal(t, 60, cfg.Provider.Ollama.GenerateTimeoutSecs)
	assert.Equal(t, "faq_data.json", cfg.Retrieval.CorpusPath)
	assert.InDelta(t, 0.5, cfg.Retrieval.Threshold, 1e-9)
}

func TestLoadFillsOllamaDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  type: ollama
  ollama:
    base_url: http://gpu-box:11434
retrieval:
  corpus_path: data/faq.json
  threshold: 0.65
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", cfg.Provider.Ollama.BaseURL)
	assert.Equal(t, "nomic-embed-text", cfg.Provider.Ollama.EmbedModel)
	assert.Equal(t, "data/faq.json", cfg.Retrieval.CorpusPath)
	assert.InDelta(t, 0.65, cfg.Retrieval.Threshold, 1e-9)
}

func TestLoadFillsOpenAIDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  type: openai
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Provider.OpenAI)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Provider.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Provider.OpenAI.APIKeyEnv)
	assert.Equal(t, "text-embedding-3-small", cfg.Provider.OpenAI.EmbedModel)
	assert.Equal(t, "gpt-4o-mini", cfg.Provider.OpenAI.ChatModel)
	assert.Equal(t, 30, cfg.Provider.OpenAI.TimeoutSecs)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Retrieval.Threshold = 0.7

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, loaded.Retrieval.Threshold, 1e-9)
	assert.Equal(t, cfg.Provider.Type, loaded.Provider.Type)
}
