// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/zotwatcher/internal/embed"
	"github.com/pdiddy/zotwatcher/internal/profile"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

// timeNow is swapped in tests for deterministic decay scores.
var timeNow = time.Now

const (
	// semanticNeighbors is how many profile vectors the semantic score
	// averages over (clamped to the index size).
	semanticNeighbors = 10

	// distanceScale calibrates the distance→similarity map
	// exp(-d/distanceScale). A tunable, not a derived constant.
	distanceScale = 10.0
)

// Default scoring parameters, applied when the config leaves them zero.
const (
	defaultWeightSemantic  = 0.4
	defaultWeightTime      = 0.15
	defaultWeightWhitelist = 0.05
	defaultHalfLife        = 3.5
	defaultDailyDecayRate  = 0.1
	defaultMaxDays         = 14
	defaultWhitelistBonus  = 0.2
	neutralTimeScore       = 0.5
)

// Signal classifies how a sub-score was produced, so callers can tell a
// genuine score from a degraded neutral default without treating the
// degradation as a failure.
type Signal int

const (
	// SignalOK means the score was computed from real inputs.
	SignalOK Signal = iota

	// SignalAbsent means the input carried no signal (no embeddable text,
	// empty profile index, missing or unparsable date) and the score is
	// the neutral default.
	SignalAbsent

	// SignalFailed means a collaborator call failed; the failure was
	// contained and the score is the neutral default.
	SignalFailed
)

func (s Signal) String() string {
	switch s {
	case SignalOK:
		return "ok"
	case SignalAbsent:
		return "absent"
	case SignalFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SubScore carries a sub-score value together with its diagnostic signal.
type SubScore struct {
	Value  float64
	Signal Signal
}

// Scorer computes per-candidate sub-scores against a loaded profile.
// The profile is a read-only borrowed view for the duration of a pass;
// rebuilding it concurrently is the caller's problem to prevent.
type Scorer struct {
	Profile  *profile.Profile
	Provider embed.Provider
	Config   types.ScoringConfig
	Log      io.Writer
}

// Score computes all three sub-scores and the weighted composite for
// every candidate. Scoring never fails a pass: degraded sub-scores
// resolve to their neutral defaults.
func (s *Scorer) Score(ctx context.Context, candidates []types.CandidateDocument) []types.ScoredCandidate {
	weights := s.Config.Weights
	if weights.Semantic == 0 && weights.Time == 0 && weights.Whitelist == 0 {
		weights = types.WeightsConfig{
			Semantic:  defaultWeightSemantic,
			Time:      defaultWeightTime,
			Whitelist: defaultWeightWhitelist,
		}
	}

	scored := make([]types.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		semantic := s.SemanticScore(ctx, c)
		decay := s.TimeDecayScore(c)
		bonus := s.WhitelistBonus(c)

		scored = append(scored, types.ScoredCandidate{
			CandidateDocument: c,
			Scores: types.Scores{
				Semantic:  semantic.Value,
				Time:      decay.Value,
				Whitelist: bonus.Value,
			},
			TotalScore: semantic.Value*weights.Semantic +
				decay.Value*weights.Time +
				bonus.Value*weights.Whitelist,
		})
	}
	return scored
}

// SemanticScore measures topical fit: the candidate's title and abstract
// are embedded and compared against the k nearest profile vectors by L2
// distance, each distance mapped to a similarity exp(-d/10) and averaged.
// No text or no index yields 0.0 (no signal); an embedding or search
// failure is logged and also yields 0.0, never aborting the pass.
func (s *Scorer) SemanticScore(ctx context.Context, c types.CandidateDocument) SubScore {
	text := queryText(c)
	if text == "" {
		return SubScore{Value: 0.0, Signal: SignalAbsent}
	}
	if s.Profile == nil || s.Profile.Index == nil || s.Profile.Index.Count() == 0 {
		return SubScore{Value: 0.0, Signal: SignalAbsent}
	}

	vectors, err := s.Provider.Embed(ctx, []string{text})
	if err != nil || len(vectors) == 0 {
		s.warnf("semantic score degraded for %q: %v", c.Title, err)
		return SubScore{Value: 0.0, Signal: SignalFailed}
	}

	matches, err := s.Profile.Index.Search(vectors[0], semanticNeighbors)
	if err != nil {
		s.warnf("semantic score degraded for %q: %v", c.Title, err)
		return SubScore{Value: 0.0, Signal: SignalFailed}
	}
	if len(matches) == 0 {
		return SubScore{Value: 0.0, Signal: SignalAbsent}
	}

	var sum float64
	for _, m := range matches {
		sum += math.Exp(-m.Distance / distanceScale)
	}
	return SubScore{Value: sum / float64(len(matches)), Signal: SignalOK}
}

// queryText builds "{title}. {abstract}", trimmed. A candidate with
// neither title nor abstract reduces to a bare separator and counts as
// empty.
func queryText(c types.CandidateDocument) string {
	text := strings.TrimSpace(c.Title + ". " + c.Abstract)
	if text == "." {
		return ""
	}
	return text
}

// TimeDecayScore measures recency. Missing or unparsable dates score the
// neutral 0.5; candidates older than MaxDays score 0.0; future-dated
// candidates clamp to day zero, so the score caps at 1.0.
func (s *Scorer) TimeDecayScore(c types.CandidateDocument) SubScore {
	date, ok := parseCandidateDate(c.Date)
	if !ok {
		return SubScore{Value: neutralTimeScore, Signal: SignalAbsent}
	}

	daysAgo := int(timeNow().Sub(date).Hours() / 24)
	if daysAgo < 0 {
		daysAgo = 0
	}

	cfg := s.Config.TimeDecay
	maxDays := cfg.MaxDays
	if maxDays <= 0 {
		maxDays = defaultMaxDays
	}
	if daysAgo > maxDays {
		return SubScore{Value: 0.0, Signal: SignalOK}
	}

	if cfg.Mode == types.DecayLinear {
		rate := cfg.DailyDecayRate
		if rate <= 0 {
			rate = defaultDailyDecayRate
		}
		return SubScore{Value: math.Max(0, 1-float64(daysAgo)*rate), Signal: SignalOK}
	}

	halfLife := cfg.HalfLife
	if halfLife <= 0 {
		halfLife = defaultHalfLife
	}
	return SubScore{Value: math.Exp(-float64(daysAgo) * math.Ln2 / halfLife), Signal: SignalOK}
}

// parseCandidateDate accepts "YYYY-MM-DD" dates with or without
// zero-padded components, or any longer string whose first ten
// characters are a padded date (timestamps).
func parseCandidateDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	// Unpadded components ("2024-6-12") parse the same date.
	if t, err := time.Parse("2006-1-2", raw); err == nil {
		return t, true
	}
	if len(raw) > 10 {
		if t, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// WhitelistBonus awards a fixed bonus when the candidate matches the
// configured author, venue, or keyword lists, checked in that order by
// case-insensitive substring containment. The first matching rule wins;
// bonuses never stack, so the result is either 0 or exactly the
// configured bonus.
func (s *Scorer) WhitelistBonus(c types.CandidateDocument) SubScore {
	cfg := s.Config.Whitelist
	if !cfg.Enabled {
		return SubScore{Value: 0.0, Signal: SignalOK}
	}

	bonus := cfg.Bonus
	if bonus == 0 {
		bonus = defaultWhitelistBonus
	}

	for _, author := range c.Authors {
		author = strings.ToLower(author)
		for _, want := range cfg.Authors {
			if want != "" && strings.Contains(author, strings.ToLower(want)) {
				return SubScore{Value: bonus, Signal: SignalOK}
			}
		}
	}

	journal := strings.ToLower(c.Journal)
	for _, want := range cfg.Venues {
		if want != "" && strings.Contains(journal, strings.ToLower(want)) {
			return SubScore{Value: bonus, Signal: SignalOK}
		}
	}

	text := strings.ToLower(c.Title + " " + c.Abstract)
	for _, want := range cfg.Keywords {
		if want != "" && strings.Contains(text, strings.ToLower(want)) {
			return SubScore{Value: bonus, Signal: SignalOK}
		}
	}

	return SubScore{Value: 0.0, Signal: SignalOK}
}

func (s *Scorer) warnf(format string, args ...any) {
	if s.Log != nil {
		fmt.Fprintf(s.Log, "warning: "+format+"\n", args...)
	}
}
