package watch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdiddy/zotwatcher/pkg/types"
)

func scoredWith(title string, total float64) types.ScoredCandidate {
	return types.ScoredCandidate{
		CandidateDocument: types.CandidateDocument{Title: title},
		TotalScore:        total,
	}
}

func TestRankOrdersDescending(t *testing.T) {
	var log bytes.Buffer
	ranked := Rank([]types.ScoredCandidate{
		scoredWith("low", 0.1),
		scoredWith("high", 0.9),
		scoredWith("mid", 0.5),
	}, 0, &log)

	want := []string{"high", "mid", "low"}
	for i, w := range want {
		if ranked[i].Title != w {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Title, w)
		}
	}
}

func TestRankStableOnTies(t *testing.T) {
	var log bytes.Buffer
	ranked := Rank([]types.ScoredCandidate{
		scoredWith("first", 0.5),
		scoredWith("second", 0.5),
		scoredWith("third", 0.5),
	}, 0, &log)

	want := []string{"first", "second", "third"}
	for i, w := range want {
		if ranked[i].Title != w {
			t.Errorf("ranked[%d] = %q, want %q (ties keep input order)", i, ranked[i].Title, w)
		}
	}
}

func TestRankTruncates(t *testing.T) {
	var log bytes.Buffer
	ranked := Rank([]types.ScoredCandidate{
		scoredWith("a", 0.3),
		scoredWith("b", 0.2),
		scoredWith("c", 0.1),
	}, 2, &log)

	if len(ranked) != 2 {
		t.Fatalf("len(ranked) = %d, want 2", len(ranked))
	}
	if ranked[0].Title != "a" || ranked[1].Title != "b" {
		t.Errorf("ranked = %v, want top two by score", ranked)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	var log bytes.Buffer
	input := []types.ScoredCandidate{
		scoredWith("low", 0.1),
		scoredWith("high", 0.9),
	}
	Rank(input, 0, &log)

	if input[0].Title != "low" {
		t.Errorf("input reordered in place: %v", input)
	}
}

func TestRankEmptyInput(t *testing.T) {
	var log bytes.Buffer
	ranked := Rank(nil, 10, &log)
	if ranked == nil || len(ranked) != 0 {
		t.Errorf("ranked = %v, want empty non-nil slice", ranked)
	}
	if !strings.Contains(log.String(), "no candidates") {
		t.Errorf("expected a notice, log = %q", log.String())
	}
}
