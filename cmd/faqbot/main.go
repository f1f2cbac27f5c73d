package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"faqbot/internal/config"
	"faqbot/internal/corpus"
	"faqbot/internal/domain"
	"faqbot/internal/index"
	"faqbot/internal/provider/local"
	"faqbot/internal/provider/ollama"
	"faqbot/internal/provider/openai"
	"faqbot/internal/service"
	"faqbot/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, corpusPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/faqbot/config.yaml if not provided)")
	flag.StringVar(&corpusPath, "corpus", "", "Path to FAQ corpus JSON (overrides config)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if corpusPath != "" {
		cfg.Retrieval.CorpusPath = corpusPath
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	entries, err := corpus.Load(cfg.Retrieval.CorpusPath)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}

	// Assemble providers
	var embedder domain.EmbeddingProvider
	var completer domain.CompletionProvider
	switch cfg.Provider.Type {
	case "ollama", "":
		client := ollama.NewClient(ollama.Config{
			BaseURL:         cfg.Provider.Ollama.BaseURL,
			EmbedModel:      cfg.Provider.Ollama.EmbedModel,
			GenerateModel:   cfg.Provider.Ollama.GenerateModel,
			EmbedTimeout:    time.Duration(cfg.Provider.Ollama.EmbedTimeoutSecs) * time.Second,
			GenerateTimeout: time.Duration(cfg.Provider.Ollama.GenerateTimeoutSecs) * time.Second,
		})
		embedder = client
		completer = client
	case "openai":
		client, err := openai.NewClient(openai.Config{
			BaseURL:    cfg.Provider.OpenAI.BaseURL,
			APIKeyEnv:  cfg.Provider.OpenAI.APIKeyEnv,
			EmbedModel: cfg.Provider.OpenAI.EmbedModel,
			ChatModel:  cfg.Provider.OpenAI.ChatModel,
			Timeout:    time.Duration(cfg.Provider.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai provider init failed: %v", err)
		}
		embedder = client
		completer = client
	case "local":
		texts := make([]string, len(entries))
		for i, e := range entries {
			texts[i] = index.EmbedInput(e)
		}
		emb, err := local.NewEmbedder(texts)
		if err != nil {
			log.Fatalf("local embedder init failed: %v", err)
		}
		embedder = emb
		// retrieval-only: confident matches return the stored answer
		completer = nil
	default:
		log.Fatalf("unknown provider: %s", cfg.Provider.Type)
	}

	idx, err := index.Build(context.Background(), entries, embedder, logger)
	if err != nil {
		log.Fatalf("index build failed: %v", err)
	}

	composer := service.NewComposer(completer, cfg.Retrieval.Threshold, logger)
	svc := service.New(embedder, idx, composer, logger)

	banner := fmt.Sprintf("%d FAQ entries indexed (provider: %s)", idx.Len(), cfg.Provider.Type)
	m := tui.New(svc, banner)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
