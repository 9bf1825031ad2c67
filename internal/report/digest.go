// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/zotwatcher/pkg/types"
)

// Digest is the YAML export of one watch run. It records the run
// metadata alongside the ranked list so downstream scripts can consume
// results without re-running the pipeline.
type Digest struct {
	Generated    string        `yaml:"generated"`
	Fetched      int           `yaml:"fetched"`
	DupsRemoved  int           `yaml:"duplicates_removed"`
	SourceErrors []string      `yaml:"source_errors,omitempty"`
	Candidates   []DigestEntry `yaml:"candidates"`
}

// DigestEntry is one ranked candidate in the YAML digest.
type DigestEntry struct {
	Rank      int      `yaml:"rank"`
	Title     string   `yaml:"title"`
	Authors   []string `yaml:"authors,omitempty"`
	Journal   string   `yaml:"journal,omitempty"`
	Date      string   `yaml:"date,omitempty"`
	DOI       string   `yaml:"doi,omitempty"`
	URL       string   `yaml:"url,omitempty"`
	Source    string   `yaml:"source"`
	Total     float64  `yaml:"total"`
	Semantic  float64  `yaml:"semantic"`
	Recency   float64  `yaml:"recency"`
	Whitelist float64  `yaml:"whitelist"`
}

// WriteDigest writes the YAML digest for a watch run.
func WriteDigest(path string, ranked []types.ScoredCandidate, fetched, dupsRemoved int, sourceErrors []string) error {
	digest := Digest{
		Generated:    rssTimeNow().UTC().Format("2006-01-02T15:04:05Z"),
		Fetched:      fetched,
		DupsRemoved:  dupsRemoved,
		SourceErrors: sourceErrors,
	}
	for i, sc := range ranked {
		digest.Candidates = append(digest.Candidates, DigestEntry{
			Rank:      i + 1,
			Title:     sc.Title,
			Authors:   sc.Authors,
			Journal:   sc.Journal,
			Date:      sc.Date,
			DOI:       sc.DOI,
			URL:       sc.URL,
			Source:    sc.Source,
			Total:     sc.TotalScore,
			Semantic:  sc.Scores.Semantic,
			Recency:   sc.Scores.Time,
			Whitelist: sc.Scores.Whitelist,
		})
	}

	data, err := yaml.Marshal(digest)
	if err != nil {
		return fmt.Errorf("marshaling digest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing digest: %w", err)
	}
	return nil
}
