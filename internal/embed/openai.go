// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/zotwatcher/internal/httputil"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

// defaultEmbeddingsBase is the OpenAI embeddings endpoint base. Tests point
// cfg.BaseURL at an httptest server instead.
const defaultEmbeddingsBase = "https://api.openai.com/v1"

// OpenAIProvider calls an OpenAI-compatible /embeddings endpoint. Any
// service speaking the same wire format (OpenAI, Jina, Ollama) works by
// setting BaseURL and Model.
type OpenAIProvider struct {
	cfg    types.EmbeddingConfig
	client *http.Client
}

// NewOpenAIProvider validates the configuration and returns a provider.
func NewOpenAIProvider(cfg types.EmbeddingConfig) (*OpenAIProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding model not configured")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension not configured for model %s", cfg.Model)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultEmbeddingsBase
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Dimension returns the configured model output dimensionality.
func (p *OpenAIProvider) Dimension() int { return p.cfg.Dimension }

// Embed sends texts to the embeddings API in batches and returns one
// vector per text, in input order.
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var all [][]float32
	for start := 0; start < len(texts); start += p.cfg.BatchSize {
		end := start + p.cfg.BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := p.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}
	return all, nil
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Error *apiError       `json:"error,omitempty"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (p *OpenAIProvider) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingRequest{Input: texts, Model: p.cfg.Model})
	if err != nil {
		return nil, fmt.Errorf("marshaling embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	if p.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, p.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("embeddings API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("embeddings API returned HTTP %d: %s", resp.StatusCode, preview)
	}

	var er embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing embeddings response: %w", err)
	}
	if er.Error != nil {
		return nil, fmt.Errorf("embeddings API error: %s", er.Error.Message)
	}
	if len(er.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings API returned %d vectors for %d texts", len(er.Data), len(texts))
	}

	// The API may reorder data; the index field restores input order.
	vectors := make([][]float32, len(texts))
	for _, d := range er.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embeddings API returned out-of-range index %d", d.Index)
		}
		if len(d.Embedding) != p.cfg.Dimension {
			return nil, fmt.Errorf("model %s returned dimension %d, expected %d",
				p.cfg.Model, len(d.Embedding), p.cfg.Dimension)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
