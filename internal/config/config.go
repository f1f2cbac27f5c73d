package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OllamaConfig holds connection details for a local or remote Ollama server.
type OllamaConfig struct {
	BaseURL             string `yaml:"base_url"`
	EmbedModel          string `yaml:"embed_model"`
	GenerateModel       string `yaml:"generate_model"`
	EmbedTimeoutSecs    int    `yaml:"embed_timeout_secs"`
	GenerateTimeoutSecs int    `yaml:"generate_timeout_secs"`
}

// OpenAIConfig holds configuration for an OpenAI-compatible provider.
type OpenAIConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	EmbedModel  string `yaml:"embed_model"`
	ChatModel   string `yaml:"chat_model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ProviderConfig selects and configures the embedding/completion provider.
// Type is one of "ollama", "openai" or "local". The local provider embeds
// offline with TF-IDF and answers retrieval-only (no completion call).
type ProviderConfig struct {
	Type   string        `yaml:"type"`
	Ollama *OllamaConfig `yaml:"ollama,omitempty"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// RetrievalConfig tunes corpus loading and match acceptance.
type RetrievalConfig struct {
	CorpusPath string  `yaml:"corpus_path"`
	Threshold  float64 `yaml:"threshold"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Provider  ProviderConfig  `yaml:"provider"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/faqbot/config.yaml.
// If neither exists, it writes defaults to ~/.config/faqbot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "faqbot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Provider: ProviderConfig{
			Type:   "ollama",
			Ollama: &OllamaConfig{},
		},
		Retrieval: RetrievalConfig{
			CorpusPath: "faq_data.json",
			Threshold:  0.5,
		},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Retrieval.CorpusPath == "" {
		cfg.Retrieval.CorpusPath = "faq_data.json"
	}
	if cfg.Retrieval.Threshold == 0 {
		cfg.Retrieval.Threshold = 0.5
	}
	if cfg.Provider.Type == "" {
		cfg.Provider.Type = "ollama"
	}
	if cfg.Provider.Type == "ollama" {
		if cfg.Provider.Ollama == nil {
			cfg.Provider.Ollama = &OllamaConfig{}
		}
		o := cfg.Provider.Ollama
		if o.BaseURL == "" {
			o.BaseURL = "http://localhost:11434"
		}
		if o.EmbedModel == "" {
			o.EmbedModel = "nomic-embed-text"
		}
		if o.GenerateModel == "" {
			o.GenerateModel = "llama3"
		}
		if o.EmbedTimeoutSecs == 0 {
			o.EmbedTimeoutSecs = 45
		}
		if o.GenerateTimeoutSecs == 0 {
			o.GenerateTimeoutSecs = 60
		}
	}
	if cfg.Provider.Type == "openai" {
		if cfg.Provider.OpenAI == nil {
			cfg.Provider.OpenAI = &OpenAIConfig{}
		}
		a := cfg.Provider.OpenAI
		if a.BaseURL == "" {
			a.BaseURL = "https://api.openai.com/v1"
		}
		if a.APIKeyEnv == "" {
			a.APIKeyEnv = "OPENAI_API_KEY"
		}
		if a.EmbedModel == "" {
			a.EmbedModel = "text-embedding-3-small"
		}
		if a.ChatModel == "" {
			a.ChatModel = "gpt-4o-mini"
		}
		if a.TimeoutSecs == 0 {
			a.TimeoutSecs = 30
		}
	}
}
