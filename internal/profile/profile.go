// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/zotwatcher/internal/embed"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

// statsTopN is how many authors, venues, and tags the statistics keep.
const statsTopN = 50

// Profile is the aggregate of embedded reference vectors plus derived
// statistics. The Keys slice maps each arena position back to the
// document key it was built from. A Profile is immutable after Build;
// the scorer only ever holds a read-only view.
type Profile struct {
	Index *Index
	Keys  []string
	Stats types.ProfileStatistics
}

// EmbeddingText derives the text embedded for a reference document:
// "{title}. {abstract} {tags joined by space}", trimmed.
func EmbeddingText(doc types.ReferenceDocument) string {
	return strings.TrimSpace(fmt.Sprintf("%s. %s %s",
		doc.Title, doc.Abstract, strings.Join(doc.Tags, " ")))
}

// Build embeds every document and assembles a fresh profile. Vectors are
// inserted in document order, so arena position i corresponds to
// documents[i]. Returns ErrEmptyCorpus when documents is empty.
func Build(ctx context.Context, documents []types.ReferenceDocument, provider embed.Provider) (*Profile, error) {
	if len(documents) == 0 {
		return nil, ErrEmptyCorpus
	}

	texts := make([]string, len(documents))
	keys := make([]string, len(documents))
	for i, doc := range documents {
		texts[i] = EmbeddingText(doc)
		keys[i] = doc.Key
	}

	vectors, err := provider.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding reference corpus: %w", err)
	}
	if len(vectors) != len(documents) {
		return nil, fmt.Errorf("provider returned %d vectors for %d documents",
			len(vectors), len(documents))
	}

	index := NewIndex(provider.Dimension())
	if err := index.Add(vectors...); err != nil {
		return nil, err
	}

	return &Profile{
		Index: index,
		Keys:  keys,
		Stats: computeStatistics(documents),
	}, nil
}

// computeStatistics counts authors, venues, and tags across the corpus
// and keeps the top 50 of each by descending frequency. Ties keep
// first-encountered order.
func computeStatistics(documents []types.ReferenceDocument) types.ProfileStatistics {
	authors := newCounter()
	venues := newCounter()
	tags := newCounter()

	for _, doc := range documents {
		for _, c := range doc.Creators {
			if c.Role != "author" && c.Role != "editor" {
				continue
			}
			name := strings.TrimSpace(c.Name())
			if name == "" {
				continue
			}
			authors.add(name)
		}
		if venue := strings.TrimSpace(doc.Venue); venue != "" {
			venues.add(venue)
		}
		for _, tag := range doc.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags.add(tag)
			}
		}
	}

	return types.ProfileStatistics{
		ItemCount:  len(documents),
		TopAuthors: authors.top(statsTopN),
		TopVenues:  venues.top(statsTopN),
		TopTags:    tags.top(statsTopN),
	}
}

// counter tracks occurrence counts while remembering first-encounter order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if _, seen := c.counts[name]; !seen {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

// top returns up to n entries by descending count. The stable sort over
// first-encounter order breaks ties deterministically.
func (c *counter) top(n int) []types.FrequencyCount {
	entries := make([]types.FrequencyCount, 0, len(c.order))
	for _, name := range c.order {
		entries = append(entries, types.FrequencyCount{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
