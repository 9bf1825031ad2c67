package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/zotwatcher/pkg/types"
)

func testEmbeddingCfg(baseURL string) types.EmbeddingConfig {
	return types.EmbeddingConfig{
		Model:     "text-embedding-3-small",
		BaseURL:   baseURL,
		APIKey:    "sk-test",
		Dimension: 3,
		BatchSize: 2,
	}
}

func TestNewOpenAIProviderValidation(t *testing.T) {
	if _, err := NewOpenAIProvider(types.EmbeddingConfig{Dimension: 3}); err == nil {
		t.Error("missing model should be rejected")
	}
	if _, err := NewOpenAIProvider(types.EmbeddingConfig{Model: "m"}); err == nil {
		t.Error("missing dimension should be rejected")
	}
}

func TestOpenAIEmbed(t *testing.T) {
	var requests []embeddingRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		var req embeddingRequest
		json.NewDecoder(r.Body).Decode(&req)
		requests = append(requests, req)

		// Reply in reverse order; the index field restores input order.
		fmt.Fprint(w, `{"data":[`)
		for i := len(req.Input) - 1; i >= 0; i-- {
			fmt.Fprintf(w, `{"index":%d,"embedding":[%d,0,0]}`, i, len(requests)*10+i)
			if i > 0 {
				fmt.Fprint(w, ",")
			}
		}
		fmt.Fprint(w, `]}`)
	}))
	defer ts.Close()

	provider, err := NewOpenAIProvider(testEmbeddingCfg(ts.URL))
	if err != nil {
		t.Fatal(err)
	}

	vectors, err := provider.Embed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 3 {
		t.Fatalf("len(vectors) = %d, want 3", len(vectors))
	}

	// Batch size 2 means two requests: [a b] then [c].
	if len(requests) != 2 || len(requests[0].Input) != 2 || len(requests[1].Input) != 1 {
		t.Errorf("requests = %+v, want batches of 2 then 1", requests)
	}

	// Input order restored: vector i carries marker batch*10+indexInBatch.
	if vectors[0][0] != 10 || vectors[1][0] != 11 || vectors[2][0] != 20 {
		t.Errorf("vectors = %v, order not restored from index field", vectors)
	}
}

func TestOpenAIEmbedEmptyInput(t *testing.T) {
	provider, err := NewOpenAIProvider(testEmbeddingCfg("http://unused.invalid"))
	if err != nil {
		t.Fatal(err)
	}
	vectors, err := provider.Embed(context.Background(), nil)
	if err != nil || vectors != nil {
		t.Errorf("Embed(nil) = %v, %v, want nil, nil", vectors, err)
	}
}

func TestOpenAIEmbedDimensionMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":[{"index":0,"embedding":[1,2,3,4,5]}]}`)
	}))
	defer ts.Close()

	provider, err := NewOpenAIProvider(testEmbeddingCfg(ts.URL))
	if err != nil {
		t.Fatal(err)
	}
	_, err = provider.Embed(context.Background(), []string{"a"})
	if err == nil || !strings.Contains(err.Error(), "dimension") {
		t.Fatalf("error = %v, want dimension mismatch", err)
	}
}

func TestOpenAIEmbedAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"auth"},"data":[]}`)
	}))
	defer ts.Close()

	provider, err := NewOpenAIProvider(testEmbeddingCfg(ts.URL))
	if err != nil {
		t.Fatal(err)
	}
	_, err = provider.Embed(context.Background(), []string{"a"})
	if err == nil || !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("error = %v, want API error surfaced", err)
	}
}

func TestOpenAIEmbedHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer ts.Close()

	provider, err := NewOpenAIProvider(testEmbeddingCfg(ts.URL))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := provider.Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("Embed should fail on HTTP 400")
	}
}

func TestMockProviderDeterministic(t *testing.T) {
	m := &MockProvider{Dim: 4}
	v1, err := m.Embed(context.Background(), []string{"same text"})
	if err != nil {
		t.Fatal(err)
	}
	v2, _ := m.Embed(context.Background(), []string{"same text"})
	for i := range v1[0] {
		if v1[0][i] != v2[0][i] {
			t.Fatalf("mock embeddings differ at %d: %v vs %v", i, v1[0], v2[0])
		}
	}
	if len(v1[0]) != 4 {
		t.Errorf("dimension = %d, want 4", len(v1[0]))
	}
}
