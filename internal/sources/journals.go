// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/zotwatcher/pkg/types"
)

// TopJournalsSource fetches recent articles from the venues the profile
// reads most, via targeted Crossref container-title queries. The venue
// list comes from the profile statistics at construction time.
type TopJournalsSource struct {
	Client *http.Client

	// Venues lists the journals to query, most frequent first.
	Venues []string
}

// Name returns the source identifier.
func (s *TopJournalsSource) Name() string { return "top_journals" }

// Fetch queries each venue for articles published within the recency
// window. A venue with no results is not an error; a failing request
// aborts the whole source so the pipeline logs it once.
func (s *TopJournalsSource) Fetch(ctx context.Context, cfg types.SourcesConfig) ([]Record, error) {
	maxJournals := cfg.TopJournals.MaxJournals
	if maxJournals <= 0 {
		maxJournals = 5
	}
	rows := cfg.TopJournals.Rows
	if rows <= 0 {
		rows = 20
	}

	venues := s.Venues
	if len(venues) > maxJournals {
		venues = venues[:maxJournals]
	}
	if len(venues) == 0 {
		return nil, fmt.Errorf("no profile venues available: build a profile first")
	}

	from, until := recencyWindow(cfg.RecentDays)
	filter := fmt.Sprintf("from-pub-date:%s,until-pub-date:%s,type:journal-article", from, until)

	var records []Record
	for _, venue := range venues {
		params := url.Values{
			"query.container-title": {venue},
			"filter":                {filter},
			"rows":                  {fmt.Sprintf("%d", rows)},
		}
		if cfg.Mailto != "" {
			params.Set("mailto", cfg.Mailto)
		}

		var cr crossrefResponse
		if err := getJSON(ctx, s.Client, crossrefAPIBase+"?"+params.Encode(), cfg.UserAgent, &cr); err != nil {
			return nil, fmt.Errorf("Crossref journal query %q: %w", venue, err)
		}

		for _, item := range cr.Message.Items {
			rec := crossrefRecord(item)
			rec.Source = "top_journals"
			records = append(records, rec)
		}
	}
	return records, nil
}
