// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CandidateDocument is a newly discovered document under evaluation for
// recommendation. Candidates exist only for the duration of one ranking
// pass; the engine never persists them. Required fields default to the
// empty string or empty list, never nil, so scoring does not branch on
// absence.
type CandidateDocument struct {
	// Title is the document title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the document abstract or summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists plain "First Last" author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Date is the publication date in "YYYY-MM-DD" form when available.
	// Partial or unparsable dates are preserved as opaque strings; the
	// scorer handles parse failure, not the source adapters.
	Date string `json:"date" yaml:"date"`

	// Journal is the venue name (journal, or "arXiv" for preprints).
	Journal string `json:"journal" yaml:"journal"`

	// DOI is the document DOI, possibly empty.
	DOI string `json:"doi" yaml:"doi"`

	// URL is the document landing page or entry URL.
	URL string `json:"url" yaml:"url"`

	// Source identifies which backend produced this candidate
	// (e.g. "crossref", "arxiv", "biorxiv").
	Source string `json:"source" yaml:"source"`

	// Categories lists source-specific subject categories, if any.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// Scores holds the three independent sub-scores computed for a candidate.
type Scores struct {
	// Semantic is the profile similarity score in [0, 1].
	Semantic float64 `json:"semantic" yaml:"semantic"`

	// Time is the recency decay score in [0, 1].
	Time float64 `json:"time" yaml:"time"`

	// Whitelist is the preference bonus: 0 or exactly the configured bonus.
	Whitelist float64 `json:"whitelist" yaml:"whitelist"`
}

// ScoredCandidate pairs a candidate with its sub-scores and composite score.
// All sub-scores are kept alongside the total for observability.
type ScoredCandidate struct {
	CandidateDocument `yaml:",inline"`

	// Scores holds the individual sub-scores.
	Scores Scores `json:"scores" yaml:"scores"`

	// TotalScore is the weighted composite used for ranking. The weights
	// need not sum to 1; this is a scoring scale, not a probability.
	TotalScore float64 `json:"total_score" yaml:"total_score"`
}
