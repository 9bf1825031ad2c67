// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"strings"

	"github.com/pdiddy/zotwatcher/pkg/types"
)

// Deduplicate collapses candidates that refer to the same work: equal
// DOIs (case-insensitive) when both are present, or equal trimmed titles
// when neither has a DOI. A single forward pass keeps the first
// occurrence and drops later duplicates, so arrival order decides which
// copy survives. This is a deliberate greedy policy, not similarity
// clustering: near-duplicate titles with typos are not merged.
func Deduplicate(candidates []types.CandidateDocument) ([]types.CandidateDocument, int) {
	seenDOIs := make(map[string]bool)
	seenTitles := make(map[string]bool)

	unique := make([]types.CandidateDocument, 0, len(candidates))
	removed := 0

	for _, c := range candidates {
		doi := strings.ToLower(strings.TrimSpace(c.DOI))
		title := strings.ToLower(strings.TrimSpace(c.Title))

		if doi != "" && seenDOIs[doi] {
			removed++
			continue
		}
		if doi == "" && seenTitles[title] {
			removed++
			continue
		}

		if doi != "" {
			seenDOIs[doi] = true
		}
		if title != "" {
			seenTitles[title] = true
		}
		unique = append(unique, c)
	}
	return unique, removed
}
