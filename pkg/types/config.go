// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "zotwatcher/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ZoteroConfig holds settings for the reference-library fetch and push stages.
type ZoteroConfig struct {
	HTTPConfig `yaml:",inline"`

	// UserID is the numeric library identifier.
	UserID string `json:"user_id" yaml:"user_id"`

	// APIKey authenticates against the Zotero API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// LibraryType is "user" or "group" (default "user").
	LibraryType string `json:"library_type" yaml:"library_type"`

	// PageSize is the number of items fetched per request (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxItems caps the total items fetched. Zero means no cap.
	MaxItems int `json:"max_items" yaml:"max_items"`
}

// EmbeddingConfig holds settings for the embedding provider.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the embedding model identifier (e.g. "text-embedding-3-small").
	Model string `json:"model" yaml:"model"`

	// BaseURL is the OpenAI-compatible API base (default "https://api.openai.com/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey authenticates against the embedding API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Dimension is the fixed output dimensionality of the model. A profile
	// built with one dimension must be queried with the same dimension.
	Dimension int `json:"dimension" yaml:"dimension"`

	// BatchSize is the number of texts embedded per API call (default 100).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// ProfileConfig holds settings for the profile store.
type ProfileConfig struct {
	// DataDir is the directory holding the profile files: index.db,
	// profile.json, and profile.db (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// CrossrefConfig holds settings for the Crossref candidate source.
type CrossrefConfig struct {
	// Enabled controls whether the Crossref backend runs.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Rows is the page size per request (default 100).
	Rows int `json:"rows" yaml:"rows"`

	// MaxPages caps the number of pages fetched (default 5).
	MaxPages int `json:"max_pages" yaml:"max_pages"`
}

// ArxivConfig holds settings for the arXiv candidate source.
type ArxivConfig struct {
	// Enabled controls whether the arXiv backend runs.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Categories lists arXiv categories to query (default cs.AI, cs.CL, cs.CV, cs.LG).
	Categories []string `json:"categories" yaml:"categories"`

	// MaxResults caps results per query (default 200).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// RxivConfig holds settings for a bioRxiv/medRxiv candidate source.
type RxivConfig struct {
	// Enabled controls whether the backend runs.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// TopJournalsConfig holds settings for the profile-driven journal source,
// which queries Crossref for recent articles in the library's top venues.
type TopJournalsConfig struct {
	// Enabled controls whether the backend runs.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// MaxJournals is the number of top venues to query (default 5).
	MaxJournals int `json:"max_journals" yaml:"max_journals"`

	// Rows is the result count requested per journal (default 20).
	Rows int `json:"rows" yaml:"rows"`
}

// SourcesConfig groups candidate source settings.
type SourcesConfig struct {
	HTTPConfig `yaml:",inline"`

	// RecentDays is the lookback window for candidate fetching (default 7).
	RecentDays int `json:"recent_days" yaml:"recent_days"`

	// Mailto is sent to Crossref for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	Crossref    CrossrefConfig    `json:"crossref" yaml:"crossref"`
	Arxiv       ArxivConfig       `json:"arxiv" yaml:"arxiv"`
	Biorxiv     RxivConfig        `json:"biorxiv" yaml:"biorxiv"`
	Medrxiv     RxivConfig        `json:"medrxiv" yaml:"medrxiv"`
	TopJournals TopJournalsConfig `json:"top_journals" yaml:"top_journals"`
}

// DecayMode selects the time-decay curve.
type DecayMode string

const (
	DecayExponential DecayMode = "exponential"
	DecayLinear      DecayMode = "linear"
)

// TimeDecayConfig holds settings for the recency sub-score.
type TimeDecayConfig struct {
	// Mode is "exponential" (default) or "linear".
	Mode DecayMode `json:"mode" yaml:"mode"`

	// HalfLife is the exponential half-life in days (default 3.5).
	HalfLife float64 `json:"half_life" yaml:"half_life"`

	// DailyDecayRate is the linear decay per day (default 0.1).
	DailyDecayRate float64 `json:"daily_decay_rate" yaml:"daily_decay_rate"`

	// MaxDays is the hard recency cutoff: older candidates score 0 (default 14).
	MaxDays int `json:"max_days" yaml:"max_days"`
}

// WhitelistConfig holds settings for the preference bonus.
type WhitelistConfig struct {
	// Enabled controls whether the bonus applies at all.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Bonus is the fixed score awarded on a match (default 0.2).
	Bonus float64 `json:"bonus" yaml:"bonus"`

	// Authors, Venues, and Keywords are matched by case-insensitive
	// substring containment, checked in that order; the first matching
	// rule wins and bonuses never stack.
	Authors  []string `json:"authors" yaml:"authors"`
	Venues   []string `json:"venues" yaml:"venues"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// WeightsConfig holds the composite score weights. The defaults
// (0.4, 0.15, 0.05) deliberately do not sum to 1.
type WeightsConfig struct {
	Semantic  float64 `json:"semantic" yaml:"semantic"`
	Time      float64 `json:"time" yaml:"time"`
	Whitelist float64 `json:"whitelist" yaml:"whitelist"`
}

// ScoringConfig groups all scoring settings.
type ScoringConfig struct {
	Weights   WeightsConfig   `json:"weights" yaml:"weights"`
	TimeDecay TimeDecayConfig `json:"time_decay" yaml:"time_decay"`
	Whitelist WhitelistConfig `json:"whitelist" yaml:"whitelist"`

	// TopN is the maximum number of ranked candidates returned (default 100).
	TopN int `json:"top_n" yaml:"top_n"`
}

// OutputConfig holds settings for the report renderers.
type OutputConfig struct {
	// Dir is the directory for generated reports (default "output").
	Dir string `json:"dir" yaml:"dir"`

	// PushToZotero controls whether ranked candidates are pushed back into
	// the reference library after a watch run.
	PushToZotero bool `json:"push_to_zotero" yaml:"push_to_zotero"`
}

// WatcherConfig groups all stage configurations for the pipeline.
type WatcherConfig struct {
	Zotero    ZoteroConfig    `json:"zotero" yaml:"zotero"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Profile   ProfileConfig   `json:"profile" yaml:"profile"`
	Sources   SourcesConfig   `json:"sources" yaml:"sources"`
	Scoring   ScoringConfig   `json:"scoring" yaml:"scoring"`
	Output    OutputConfig    `json:"output" yaml:"output"`
}
