package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"faqbot/internal/domain"
)

// Client talks to the Ollama REST API and implements both the embedding
// and the completion provider ports. The underlying http.Client is safe
// for concurrent use, so one Client serves all in-flight requests.
type Client struct {
	baseURL         string
	embedModel      string
	generateModel   string
	embedTimeout    time.Duration
	generateTimeout time.Duration
	client          *http.Client
}

// Config carries connection details for an Ollama server.
type Config struct {
	BaseURL         string
	EmbedModel      string
	GenerateModel   string
	EmbedTimeout    time.Duration
	GenerateTimeout time.Duration
}

// NewClient creates an Ollama-backed provider.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.EmbedTimeout == 0 {
		cfg.EmbedTimeout = 45 * time.Second
	}
	if cfg.GenerateTimeout == 0 {
		cfg.GenerateTimeout = 60 * time.Second
	}
	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		embedModel:      cfg.EmbedModel,
		generateModel:   cfg.GenerateModel,
		embedTimeout:    cfg.EmbedTimeout,
		generateTimeout: cfg.GenerateTimeout,
		client:          &http.Client{},
	}
}

// Embed requests an embedding vector from the configured embedding model.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(c.embedModel) == "" {
		return nil, fmt.Errorf("%w: embedding model is empty", domain.ErrEmbeddingUnavailable)
	}
	payload := map[string]any{
		"model":  c.embedModel,
		"prompt": text,
	}
	body, err := c.post(ctx, "/api/embeddings", payload, c.embedTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	var parsed struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse embedding response: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", domain.ErrEmbeddingUnavailable)
	}
	return parsed.Embedding, nil
}

// Complete asks the configured generation model for a non-streamed response.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.generateModel) == "" {
		return "", fmt.Errorf("%w: generation model is empty", domain.ErrCompletionUnavailable)
	}
	payload := map[string]any{
		"model":  c.generateModel,
		"prompt": prompt,
		"stream": false,
	}
	body, err := c.post(ctx, "/api/generate", payload, c.generateTimeout)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionUnavailable, err)
	}
	var parsed struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: parse generate response: %v", domain.ErrCompletionUnavailable, err)
	}
	if strings.TrimSpace(parsed.Response) == "" {
		return "", fmt.Errorf("%w: empty response returned", domain.ErrCompletionUnavailable)
	}
	return parsed.Response, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, timeout time.Duration) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
