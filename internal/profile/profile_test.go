package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/pdiddy/zotwatcher/internal/embed"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

func TestEmbeddingText(t *testing.T) {
	tests := []struct {
		name string
		doc  types.ReferenceDocument
		want string
	}{
		{
			name: "title abstract and tags",
			doc: types.ReferenceDocument{
				Title:    "Deep Learning",
				Abstract: "A survey.",
				Tags:     []string{"ml", "neural"},
			},
			want: "Deep Learning. A survey. ml neural",
		},
		{
			name: "title only",
			doc:  types.ReferenceDocument{Title: "Deep Learning"},
			want: "Deep Learning.",
		},
		{
			name: "empty document reduces to bare separator",
			doc:  types.ReferenceDocument{},
			want: ".",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmbeddingText(tt.doc); got != tt.want {
				t.Errorf("EmbeddingText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildEmptyCorpus(t *testing.T) {
	_, err := Build(context.Background(), nil, &embed.MockProvider{Dim: 4})
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("Build error = %v, want ErrEmptyCorpus", err)
	}
}

func TestBuild(t *testing.T) {
	documents := []types.ReferenceDocument{
		{Key: "KEY1", Title: "Paper A", Venue: "Nature"},
		{Key: "KEY2", Title: "Paper B", Venue: "Nature"},
		{Key: "KEY3", Title: "Paper C", Venue: "Science"},
	}

	prof, err := Build(context.Background(), documents, &embed.MockProvider{Dim: 8})
	if err != nil {
		t.Fatal(err)
	}

	if prof.Index.Count() != 3 {
		t.Errorf("Index.Count() = %d, want 3", prof.Index.Count())
	}
	if prof.Index.Dimension() != 8 {
		t.Errorf("Index.Dimension() = %d, want 8", prof.Index.Dimension())
	}
	wantKeys := []string{"KEY1", "KEY2", "KEY3"}
	for i, want := range wantKeys {
		if prof.Keys[i] != want {
			t.Errorf("Keys[%d] = %q, want %q", i, prof.Keys[i], want)
		}
	}
	if prof.Stats.ItemCount != 3 {
		t.Errorf("Stats.ItemCount = %d, want 3", prof.Stats.ItemCount)
	}
}

func TestBuildFailingProvider(t *testing.T) {
	documents := []types.ReferenceDocument{{Key: "K", Title: "T"}}
	_, err := Build(context.Background(), documents, &failingProvider{})
	if err == nil {
		t.Fatal("Build with failing provider should return an error")
	}
}

type failingProvider struct{}

func (f *failingProvider) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("provider down")
}

func (f *failingProvider) Dimension() int { return 4 }

func TestComputeStatistics(t *testing.T) {
	documents := []types.ReferenceDocument{
		{
			Creators: []types.Creator{
				{FirstName: "Ada", LastName: "Lovelace", Role: "author"},
				{FirstName: "Alan", LastName: "Turing", Role: "author"},
				{FirstName: "Ignored", LastName: "Translator", Role: "translator"},
			},
			Venue: "Nature",
			Tags:  []string{"computing", "history"},
		},
		{
			Creators: []types.Creator{
				{FirstName: "Ada", LastName: "Lovelace", Role: "author"},
				{FirstName: "Grace", LastName: "Hopper", Role: "editor"},
			},
			Venue: "Nature",
			Tags:  []string{"computing"},
		},
		{
			Venue: "Science",
			Tags:  []string{" ", ""},
		},
	}

	stats := computeStatistics(documents)

	if stats.ItemCount != 3 {
		t.Errorf("ItemCount = %d, want 3", stats.ItemCount)
	}

	if len(stats.TopAuthors) != 3 {
		t.Fatalf("len(TopAuthors) = %d, want 3 (translator excluded)", len(stats.TopAuthors))
	}
	if stats.TopAuthors[0].Name != "Ada Lovelace" || stats.TopAuthors[0].Count != 2 {
		t.Errorf("TopAuthors[0] = %+v, want Ada Lovelace ×2", stats.TopAuthors[0])
	}

	if len(stats.TopVenues) != 2 {
		t.Fatalf("len(TopVenues) = %d, want 2", len(stats.TopVenues))
	}
	if stats.TopVenues[0].Name != "Nature" || stats.TopVenues[0].Count != 2 {
		t.Errorf("TopVenues[0] = %+v, want Nature ×2", stats.TopVenues[0])
	}

	if len(stats.TopTags) != 2 {
		t.Fatalf("len(TopTags) = %d, want 2 (blank tags skipped)", len(stats.TopTags))
	}
	if stats.TopTags[0].Name != "computing" || stats.TopTags[0].Count != 2 {
		t.Errorf("TopTags[0] = %+v, want computing ×2", stats.TopTags[0])
	}
}

func TestCounterTiesKeepEncounterOrder(t *testing.T) {
	c := newCounter()
	c.add("beta")
	c.add("alpha")
	c.add("gamma")

	top := c.top(10)
	want := []string{"beta", "alpha", "gamma"}
	for i, w := range want {
		if top[i].Name != w {
			t.Errorf("top[%d] = %q, want %q (first-encounter order on ties)", i, top[i].Name, w)
		}
	}
}

func TestCounterTruncates(t *testing.T) {
	c := newCounter()
	for _, name := range []string{"a", "b", "c", "d"} {
		c.add(name)
	}
	if got := len(c.top(2)); got != 2 {
		t.Errorf("len(top(2)) = %d, want 2", got)
	}
}
