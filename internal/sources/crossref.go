// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/zotwatcher/internal/httputil"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// CrossrefSource fetches journal articles published within the recency
// window from the Crossref REST API.
type CrossrefSource struct {
	Client *http.Client
}

// Name returns the source identifier.
func (s *CrossrefSource) Name() string { return "crossref" }

// Fetch pages through recent journal-article works. The total is capped
// at rows × max_pages.
func (s *CrossrefSource) Fetch(ctx context.Context, cfg types.SourcesConfig) ([]Record, error) {
	rows := cfg.Crossref.Rows
	if rows <= 0 {
		rows = 100
	}
	maxPages := cfg.Crossref.MaxPages
	if maxPages <= 0 {
		maxPages = 5
	}

	from, until := recencyWindow(cfg.RecentDays)
	filter := fmt.Sprintf("from-pub-date:%s,until-pub-date:%s,type:journal-article", from, until)

	var records []Record
	for page := 0; page < maxPages; page++ {
		params := url.Values{
			"filter": {filter},
			"rows":   {fmt.Sprintf("%d", rows)},
			"offset": {fmt.Sprintf("%d", page*rows)},
		}
		if cfg.Mailto != "" {
			params.Set("mailto", cfg.Mailto)
		}

		var cr crossrefResponse
		if err := getJSON(ctx, s.Client, crossrefAPIBase+"?"+params.Encode(), cfg.UserAgent, &cr); err != nil {
			return nil, fmt.Errorf("Crossref API: %w", err)
		}

		for _, item := range cr.Message.Items {
			records = append(records, crossrefRecord(item))
		}

		if len(cr.Message.Items) < rows {
			break
		}
	}
	return records, nil
}

func crossrefRecord(item crossrefWork) Record {
	rec := Record{
		Abstract: item.Abstract,
		DOI:      item.DOI,
		URL:      item.URL,
		Source:   "crossref",
	}
	if len(item.Title) > 0 {
		rec.Title = item.Title[0]
	}
	if len(item.ContainerTitle) > 0 {
		rec.Journal = item.ContainerTitle[0]
	}
	for _, a := range item.Author {
		rec.Authors = append(rec.Authors, Author{Given: a.Given, Family: a.Family, Literal: a.Name})
	}

	// Prefer the print publication date, falling back to online-first.
	if parts := firstDateParts(item.PublishedPrint); parts != nil {
		rec.DateParts = parts
	} else if parts := firstDateParts(item.PublishedOnline); parts != nil {
		rec.DateParts = parts
	}
	return rec
}

func firstDateParts(d crossrefDate) []int {
	if len(d.DateParts) == 0 {
		return nil
	}
	return d.DateParts[0]
}

// recencyWindow returns the [from, until] publication date range for the
// lookback window, as "YYYY-MM-DD" strings.
func recencyWindow(recentDays int) (string, string) {
	if recentDays <= 0 {
		recentDays = 7
	}
	until := time.Now().UTC()
	from := until.AddDate(0, 0, -recentDays)
	return from.Format("2006-01-02"), until.Format("2006-01-02")
}

// getJSON performs a GET with retry and decodes the JSON response body.
func getJSON(ctx context.Context, client *http.Client, reqURL, userAgent string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// Crossref API JSON structures.
type crossrefResponse struct {
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	TotalResults int            `json:"total-results"`
	Items        []crossrefWork `json:"items"`
}

type crossrefWork struct {
	Title           []string         `json:"title"`
	Abstract        string           `json:"abstract"`
	Author          []crossrefAuthor `json:"author"`
	PublishedPrint  crossrefDate     `json:"published-print"`
	PublishedOnline crossrefDate     `json:"published-online"`
	ContainerTitle  []string         `json:"container-title"`
	DOI             string           `json:"DOI"`
	URL             string           `json:"URL"`
	Type            string           `json:"type"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}
