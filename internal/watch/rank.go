// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/zotwatcher/pkg/types"
)

// defaultTopN is the recommendation list length when none is configured.
const defaultTopN = 100

// Rank orders scored candidates by total score descending and truncates
// to topN. The sort is stable, so input order breaks ties. An empty
// input yields an empty list with a logged notice, never an error.
func Rank(scored []types.ScoredCandidate, topN int, w io.Writer) []types.ScoredCandidate {
	if len(scored) == 0 {
		fmt.Fprintln(w, "no candidates to rank")
		return []types.ScoredCandidate{}
	}

	if topN <= 0 {
		topN = defaultTopN
	}

	ranked := make([]types.ScoredCandidate, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
