package zotero

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/zotwatcher/pkg/types"
)

func TestPushCandidates(t *testing.T) {
	var bodies [][]byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/items") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()
	swapZoteroBase(t, ts.URL)

	client, err := NewClient(testZoteroCfg())
	if err != nil {
		t.Fatal(err)
	}
	client.client = ts.Client()

	ranked := []types.ScoredCandidate{
		{
			CandidateDocument: types.CandidateDocument{
				Title:    "Paper A",
				Abstract: "About A.",
				Authors:  []string{"Ada Lovelace", "Plato"},
				Date:     "2024-06-10",
				Journal:  "Nature",
				DOI:      "10.1000/a",
				URL:      "https://doi.org/10.1000/a",
				Source:   "crossref",
			},
			TotalScore: 0.4321,
		},
	}

	var log bytes.Buffer
	if err := client.PushCandidates(context.Background(), ranked, &log); err != nil {
		t.Fatal(err)
	}
	if len(bodies) != 1 {
		t.Fatalf("len(bodies) = %d, want 1", len(bodies))
	}

	var items []pushItem
	if err := json.Unmarshal(bodies[0], &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	item := items[0]
	if item.ItemType != "journalArticle" || item.Title != "Paper A" {
		t.Errorf("item = %+v", item)
	}
	if !strings.Contains(item.Extra, "0.4321") || !strings.Contains(item.Extra, "crossref") {
		t.Errorf("Extra = %q, want score and source recorded", item.Extra)
	}
	if len(item.Creators) != 2 {
		t.Fatalf("len(Creators) = %d, want 2", len(item.Creators))
	}
	if item.Creators[0].FirstName != "Ada" || item.Creators[0].LastName != "Lovelace" {
		t.Errorf("Creators[0] = %+v", item.Creators[0])
	}
	// Single-token names use the single-field form.
	if item.Creators[1].Name != "Plato" || item.Creators[1].LastName != "" {
		t.Errorf("Creators[1] = %+v", item.Creators[1])
	}
	if len(item.Tags) != 1 || item.Tags[0].Tag != "zotwatcher" {
		t.Errorf("Tags = %+v", item.Tags)
	}
}

func TestPushCandidatesBatches(t *testing.T) {
	var batchSizes []int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var items []pushItem
		json.NewDecoder(r.Body).Decode(&items)
		batchSizes = append(batchSizes, len(items))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()
	swapZoteroBase(t, ts.URL)

	client, err := NewClient(testZoteroCfg())
	if err != nil {
		t.Fatal(err)
	}
	client.client = ts.Client()

	ranked := make([]types.ScoredCandidate, 75)
	for i := range ranked {
		ranked[i].Title = "Paper"
	}

	var log bytes.Buffer
	if err := client.PushCandidates(context.Background(), ranked, &log); err != nil {
		t.Fatal(err)
	}
	if len(batchSizes) != 2 || batchSizes[0] != 50 || batchSizes[1] != 25 {
		t.Errorf("batchSizes = %v, want [50 25]", batchSizes)
	}
}

func TestPushCandidatesNothingToPush(t *testing.T) {
	client, err := NewClient(testZoteroCfg())
	if err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	if err := client.PushCandidates(context.Background(), nil, &log); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(log.String(), "nothing to push") {
		t.Errorf("log = %q", log.String())
	}
}

func TestPushCandidatesHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()
	swapZoteroBase(t, ts.URL)

	client, err := NewClient(testZoteroCfg())
	if err != nil {
		t.Fatal(err)
	}
	client.client = ts.Client()

	var log bytes.Buffer
	err = client.PushCandidates(context.Background(),
		[]types.ScoredCandidate{{CandidateDocument: types.CandidateDocument{Title: "P"}}}, &log)
	if err == nil {
		t.Fatal("PushCandidates should fail on HTTP 400")
	}
}
