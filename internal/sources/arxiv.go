// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/zotwatcher/internal/httputil"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// defaultArxivCategories is queried when no categories are configured.
var defaultArxivCategories = []string{"cs.AI", "cs.CL", "cs.CV", "cs.LG"}

// ArxivSource fetches recent preprints from the arXiv Atom API, newest
// submissions first.
type ArxivSource struct {
	Client *http.Client
}

// Name returns the source identifier.
func (s *ArxivSource) Name() string { return "arxiv" }

// Fetch queries the configured categories sorted by submission date and
// keeps entries published within the recency window.
func (s *ArxivSource) Fetch(ctx context.Context, cfg types.SourcesConfig) ([]Record, error) {
	categories := cfg.Arxiv.Categories
	if len(categories) == 0 {
		categories = defaultArxivCategories
	}
	maxResults := cfg.Arxiv.MaxResults
	if maxResults <= 0 {
		maxResults = 200
	}
	recentDays := cfg.RecentDays
	if recentDays <= 0 {
		recentDays = 7
	}

	catQuery := make([]string, len(categories))
	for i, cat := range categories {
		catQuery[i] = "cat:" + cat
	}
	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, strings.Join(catQuery, "+OR+"), maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -recentDays)

	var records []Record
	for _, entry := range feed.Entries {
		published, parseErr := time.Parse(time.RFC3339, entry.Published)
		if parseErr == nil && published.Before(cutoff) {
			continue
		}

		rec := Record{
			Title:    strings.TrimSpace(entry.Title),
			Abstract: strings.TrimSpace(entry.Summary),
			Journal:  "arXiv",
			DOI:      entry.DOI,
			URL:      entry.ID,
			Source:   "arxiv",
		}
		if parseErr == nil {
			rec.Date = published.Format("2006-01-02")
		}
		for _, a := range entry.Authors {
			rec.Authors = append(rec.Authors, Author{Literal: strings.TrimSpace(a.Name)})
		}
		for _, c := range entry.Categories {
			rec.Categories = append(rec.Categories, c.Term)
		}
		records = append(records, rec)
	}
	return records, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	DOI        string          `xml:"doi"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}
