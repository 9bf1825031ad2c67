// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/zotwatcher/internal/embed"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

const defaultUserAgent = "zotwatcher/0.1"

func init() {
	viper.SetDefault("zotero.library_type", "user")
	viper.SetDefault("zotero.page_size", 100)
	viper.SetDefault("zotero.timeout", 30*time.Second)

	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	viper.SetDefault("embedding.dimension", 1536)
	viper.SetDefault("embedding.batch_size", 100)
	viper.SetDefault("embedding.timeout", 60*time.Second)

	viper.SetDefault("profile.data_dir", "data")

	viper.SetDefault("sources.timeout", 30*time.Second)
	viper.SetDefault("sources.recent_days", 7)
	viper.SetDefault("sources.crossref.enabled", true)
	viper.SetDefault("sources.crossref.rows", 100)
	viper.SetDefault("sources.crossref.max_pages", 5)
	viper.SetDefault("sources.arxiv.enabled", true)
	viper.SetDefault("sources.arxiv.max_results", 200)
	viper.SetDefault("sources.biorxiv.enabled", false)
	viper.SetDefault("sources.medrxiv.enabled", false)
	viper.SetDefault("sources.top_journals.enabled", true)
	viper.SetDefault("sources.top_journals.max_journals", 5)
	viper.SetDefault("sources.top_journals.rows", 20)

	viper.SetDefault("scoring.weights.semantic", 0.4)
	viper.SetDefault("scoring.weights.time", 0.15)
	viper.SetDefault("scoring.weights.whitelist", 0.05)
	viper.SetDefault("scoring.time_decay.mode", "exponential")
	viper.SetDefault("scoring.time_decay.half_life", 3.5)
	viper.SetDefault("scoring.time_decay.daily_decay_rate", 0.1)
	viper.SetDefault("scoring.time_decay.max_days", 14)
	viper.SetDefault("scoring.whitelist.enabled", true)
	viper.SetDefault("scoring.whitelist.bonus", 0.2)
	viper.SetDefault("scoring.top_n", 100)

	viper.SetDefault("output.dir", "output")
	viper.SetDefault("output.push_to_zotero", false)
}

// buildConfig assembles the pipeline configuration from viper, layering
// secrets under explicit config values.
func buildConfig() types.WatcherConfig {
	var cfg types.WatcherConfig

	cfg.Zotero = types.ZoteroConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("zotero.timeout"),
			UserAgent: defaultUserAgent,
		},
		UserID:      secretDefault("zotero-user-id", viper.GetString("zotero.user_id")),
		APIKey:      secretDefault("zotero-api-key", viper.GetString("zotero.api_key")),
		LibraryType: viper.GetString("zotero.library_type"),
		PageSize:    viper.GetInt("zotero.page_size"),
		MaxItems:    viper.GetInt("zotero.max_items"),
	}

	cfg.Embedding = types.EmbeddingConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("embedding.timeout"),
			UserAgent: defaultUserAgent,
		},
		Model:     viper.GetString("embedding.model"),
		BaseURL:   viper.GetString("embedding.base_url"),
		APIKey:    secretDefault("embedding-api-key", viper.GetString("embedding.api_key")),
		Dimension: viper.GetInt("embedding.dimension"),
		BatchSize: viper.GetInt("embedding.batch_size"),
	}

	cfg.Profile = types.ProfileConfig{
		DataDir: viper.GetString("profile.data_dir"),
	}

	cfg.Sources = types.SourcesConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("sources.timeout"),
			UserAgent: defaultUserAgent,
		},
		RecentDays: viper.GetInt("sources.recent_days"),
		Mailto:     secretDefault("crossref-mailto", viper.GetString("sources.mailto")),
		Crossref: types.CrossrefConfig{
			Enabled:  viper.GetBool("sources.crossref.enabled"),
			Rows:     viper.GetInt("sources.crossref.rows"),
			MaxPages: viper.GetInt("sources.crossref.max_pages"),
		},
		Arxiv: types.ArxivConfig{
			Enabled:    viper.GetBool("sources.arxiv.enabled"),
			Categories: viper.GetStringSlice("sources.arxiv.categories"),
			MaxResults: viper.GetInt("sources.arxiv.max_results"),
		},
		Biorxiv: types.RxivConfig{Enabled: viper.GetBool("sources.biorxiv.enabled")},
		Medrxiv: types.RxivConfig{Enabled: viper.GetBool("sources.medrxiv.enabled")},
		TopJournals: types.TopJournalsConfig{
			Enabled:     viper.GetBool("sources.top_journals.enabled"),
			MaxJournals: viper.GetInt("sources.top_journals.max_journals"),
			Rows:        viper.GetInt("sources.top_journals.rows"),
		},
	}

	cfg.Scoring = types.ScoringConfig{
		Weights: types.WeightsConfig{
			Semantic:  viper.GetFloat64("scoring.weights.semantic"),
			Time:      viper.GetFloat64("scoring.weights.time"),
			Whitelist: viper.GetFloat64("scoring.weights.whitelist"),
		},
		TimeDecay: types.TimeDecayConfig{
			Mode:           types.DecayMode(viper.GetString("scoring.time_decay.mode")),
			HalfLife:       viper.GetFloat64("scoring.time_decay.half_life"),
			DailyDecayRate: viper.GetFloat64("scoring.time_decay.daily_decay_rate"),
			MaxDays:        viper.GetInt("scoring.time_decay.max_days"),
		},
		Whitelist: types.WhitelistConfig{
			Enabled:  viper.GetBool("scoring.whitelist.enabled"),
			Bonus:    viper.GetFloat64("scoring.whitelist.bonus"),
			Authors:  viper.GetStringSlice("scoring.whitelist.authors"),
			Venues:   viper.GetStringSlice("scoring.whitelist.venues"),
			Keywords: viper.GetStringSlice("scoring.whitelist.keywords"),
		},
		TopN: viper.GetInt("scoring.top_n"),
	}

	cfg.Output = types.OutputConfig{
		Dir:          viper.GetString("output.dir"),
		PushToZotero: viper.GetBool("output.push_to_zotero"),
	}

	return cfg
}

// newProvider returns the configured embedding provider. The "mock"
// model name selects the deterministic local provider, used in smoke
// runs and documentation examples where no API key is available.
func newProvider(cfg types.EmbeddingConfig) (embed.Provider, error) {
	if cfg.Model == "mock" {
		dim := cfg.Dimension
		if dim <= 0 {
			dim = 64
		}
		return &embed.MockProvider{Dim: dim}, nil
	}
	provider, err := embed.NewOpenAIProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("configuring embedding provider: %w", err)
	}
	return provider, nil
}
