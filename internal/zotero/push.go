// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/zotwatcher/internal/httputil"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

// pushBatchSize is the Zotero write API limit per request.
const pushBatchSize = 50

// PushCandidates creates one journalArticle item per ranked candidate in
// the library, batching writes. The composite score is recorded in the
// item's extra field. Push is best-effort output: a failed batch aborts
// the push but the ranked list itself is already written to disk.
func (c *Client) PushCandidates(ctx context.Context, ranked []types.ScoredCandidate, w io.Writer) error {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "nothing to push")
		return nil
	}

	for start := 0; start < len(ranked); start += pushBatchSize {
		end := start + pushBatchSize
		if end > len(ranked) {
			end = len(ranked)
		}

		items := make([]pushItem, 0, end-start)
		for _, sc := range ranked[start:end] {
			items = append(items, toPushItem(sc))
		}

		if err := c.postItems(ctx, items); err != nil {
			return fmt.Errorf("pushing items %d-%d: %w", start, end-1, err)
		}
		fmt.Fprintf(w, "pushed %d items\n", end)
	}
	return nil
}

func (c *Client) postItems(ctx context.Context, items []pushItem) error {
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshaling items: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.libraryPrefix()+"/items", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return fmt.Errorf("Zotero API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Zotero API returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// pushItem is the Zotero write API item shape.
type pushItem struct {
	ItemType         string          `json:"itemType"`
	Title            string          `json:"title"`
	AbstractNote     string          `json:"abstractNote,omitempty"`
	Creators         []zoteroCreator `json:"creators,omitempty"`
	Date             string          `json:"date,omitempty"`
	PublicationTitle string          `json:"publicationTitle,omitempty"`
	DOI              string          `json:"DOI,omitempty"`
	URL              string          `json:"url,omitempty"`
	Extra            string          `json:"extra,omitempty"`
	Tags             []zoteroTag     `json:"tags,omitempty"`
}

func toPushItem(sc types.ScoredCandidate) pushItem {
	item := pushItem{
		ItemType:         "journalArticle",
		Title:            sc.Title,
		AbstractNote:     sc.Abstract,
		Date:             sc.Date,
		PublicationTitle: sc.Journal,
		DOI:              sc.DOI,
		URL:              sc.URL,
		Extra:            fmt.Sprintf("zotwatcher score: %.4f (source: %s)", sc.TotalScore, sc.Source),
		Tags:             []zoteroTag{{Tag: "zotwatcher"}},
	}
	for _, name := range sc.Authors {
		item.Creators = append(item.Creators, splitCreator(name))
	}
	return item
}

// splitCreator splits "First Last" on the final space; single-token
// names go into the single-field form.
func splitCreator(name string) zoteroCreator {
	name = strings.TrimSpace(name)
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return zoteroCreator{CreatorType: "author", Name: name}
	}
	return zoteroCreator{
		CreatorType: "author",
		FirstName:   name[:idx],
		LastName:    name[idx+1:],
	}
}
