// Package hosted calls a remote embeddings API over HTTP. No Go SDK in the
// retrieval pack wraps a hosted embeddings endpoint, so this talks directly
// to an OpenAI-compatible /embeddings REST contract with net/http.
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Config configures the hosted embedder.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
	Timeout    time.Duration
}

// Embedder calls a hosted embeddings endpoint over HTTP.
type Embedder struct {
	cfg    Config
	client *http.Client
}

// New returns a hosted Embedder. A zero Timeout defaults to 30 seconds.
func New(cfg Config) *Embedder {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Embedder{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed requests a single embedding for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.cfg.Model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("hosted: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("hosted: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hosted: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hosted: unexpected status %d", resp.StatusCode)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("hosted: decode response: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("hosted: empty embeddings response")
	}
	return out.Data[0].Embedding, nil
}

// Dimension reports the configured embedding size.
func (e *Embedder) Dimension() int {
	return e.cfg.Dimensions
}
