// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed converts free text into fixed-dimension numeric vectors.
// The profile build and the semantic scorer both consume the Provider
// interface; the production implementation calls an OpenAI-compatible
// embeddings API.
package embed

import "context"

// Provider produces one vector per input text, in input order. Vectors
// have a fixed dimensionality per model; Dimension reports it.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// MockProvider is a deterministic in-process Provider used in tests and
// offline runs. Each text maps to a vector derived from its runes, so
// equal texts always embed identically.
type MockProvider struct {
	Dim int
}

// Embed returns one deterministic vector per text.
func (m *MockProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, m.Dim)
		for j, r := range text {
			if j >= m.Dim {
				break
			}
			v[j] = float32(r) / 1000.0
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Dimension returns the fixed output dimensionality.
func (m *MockProvider) Dimension() int { return m.Dim }
