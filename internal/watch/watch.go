// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/zotwatcher/internal/embed"
	"github.com/pdiddy/zotwatcher/internal/profile"
	"github.com/pdiddy/zotwatcher/internal/sources"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

// Output holds the results and statistics of one watch pass.
type Output struct {
	Ranked       []types.ScoredCandidate
	Fetched      int
	DupsRemoved  int
	SourceErrors []string
}

// Run executes one complete watch pass: fan out to all enabled sources
// and collect fully, then normalize, deduplicate, score against the
// profile, and rank. The pass is a sequential batch: scoring never sees
// a partial or growing candidate set, and the profile is an immutable
// snapshot for the whole pass. A missing or empty profile degrades
// scores to their neutral defaults but still produces a ranked list.
func Run(ctx context.Context, backends []sources.Source, prof *profile.Profile, provider embed.Provider, cfg types.WatcherConfig, w io.Writer) (Output, error) {
	if len(backends) == 0 {
		return Output{}, fmt.Errorf("no candidate sources enabled")
	}

	records, sourceErrors := sources.FetchAll(ctx, backends, cfg.Sources, w)
	fmt.Fprintf(w, "fetched %d records from %d sources\n", len(records), len(backends))

	candidates := make([]types.CandidateDocument, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, Normalize(rec))
	}

	unique, removed := Deduplicate(candidates)
	fmt.Fprintf(w, "deduplicated: %d candidates (%d duplicates removed)\n", len(unique), removed)

	scorer := &Scorer{
		Profile:  prof,
		Provider: provider,
		Config:   cfg.Scoring,
		Log:      w,
	}
	scored := scorer.Score(ctx, unique)

	ranked := Rank(scored, cfg.Scoring.TopN, w)
	fmt.Fprintf(w, "ranked: returning top %d candidates\n", len(ranked))

	return Output{
		Ranked:       ranked,
		Fetched:      len(records),
		DupsRemoved:  removed,
		SourceErrors: sourceErrors,
	}, nil
}
