// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/zotwatcher/pkg/types"
)

// rxivAPIBase is the bioRxiv/medRxiv details endpoint base. Declared as
// a var so tests can substitute an httptest server.
var rxivAPIBase = "https://api.biorxiv.org/details"

// rxivMaxPages bounds cursor pagination; the details API serves 100
// records per page.
const rxivMaxPages = 5

// RxivSource fetches recent preprints from the bioRxiv or medRxiv
// details API. Both servers share one endpoint and response shape.
type RxivSource struct {
	Client *http.Client

	// Server is "biorxiv" or "medrxiv".
	Server string
}

// Name returns the source identifier.
func (s *RxivSource) Name() string { return s.Server }

// Fetch pages through preprints posted within the recency window.
func (s *RxivSource) Fetch(ctx context.Context, cfg types.SourcesConfig) ([]Record, error) {
	from, until := recencyWindow(cfg.RecentDays)

	journal := "bioRxiv"
	if s.Server == "medrxiv" {
		journal = "medRxiv"
	}

	var records []Record
	cursor := 0
	for page := 0; page < rxivMaxPages; page++ {
		reqURL := fmt.Sprintf("%s/%s/%s/%s/%d", rxivAPIBase, s.Server, from, until, cursor)

		var rr rxivResponse
		if err := getJSON(ctx, s.Client, reqURL, cfg.UserAgent, &rr); err != nil {
			return nil, fmt.Errorf("%s API: %w", s.Server, err)
		}
		if len(rr.Collection) == 0 {
			break
		}

		for _, p := range rr.Collection {
			rec := Record{
				Title:    strings.TrimSpace(p.Title),
				Abstract: strings.TrimSpace(p.Abstract),
				Date:     p.Date,
				Journal:  journal,
				DOI:      p.DOI,
				Source:   s.Server,
			}
			if p.DOI != "" {
				rec.URL = "https://doi.org/" + p.DOI
			}
			if p.Category != "" {
				rec.Categories = []string{p.Category}
			}
			rec.Authors = parseRxivAuthors(p.Authors)
			records = append(records, rec)
		}

		cursor += len(rr.Collection)
		if total := rr.total(); total > 0 && cursor >= total {
			break
		}
	}
	return records, nil
}

// parseRxivAuthors splits the API's "Family, Given; Family, Given"
// author string into individual names.
func parseRxivAuthors(raw string) []Author {
	var authors []Author
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if family, given, ok := strings.Cut(part, ","); ok {
			authors = append(authors, Author{
				Given:  strings.TrimSpace(given),
				Family: strings.TrimSpace(family),
			})
		} else {
			authors = append(authors, Author{Literal: part})
		}
	}
	return authors
}

// bioRxiv/medRxiv details API JSON structures.
type rxivResponse struct {
	Collection []rxivPreprint `json:"collection"`
	Messages   []rxivMessage  `json:"messages"`
}

func (r rxivResponse) total() int {
	if len(r.Messages) == 0 {
		return 0
	}
	return r.Messages[0].Total
}

type rxivPreprint struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Authors  string `json:"authors"`
	Date     string `json:"date"`
	DOI      string `json:"doi"`
	Category string `json:"category"`
}

type rxivMessage struct {
	Total int `json:"total"`
}
