// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zotero talks to the Zotero Web API: it fetches the reference
// library the profile is built from and pushes recommendations back as
// library items.
// See docs/ARCHITECTURE § Reference Library.
package zotero

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/zotwatcher/internal/httputil"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

// zoteroAPIBase is the Zotero Web API base. Declared as a var so tests
// can substitute an httptest server.
var zoteroAPIBase = "https://api.zotero.org"

// ErrMissingCredentials is returned when the API key or library ID is
// not configured. The fetch stage fails early with empty results rather
// than surfacing the error deeper in the pipeline.
var ErrMissingCredentials = errors.New("missing Zotero credentials: set api_key and user_id")

// Non-document item kinds filtered out before profile building.
var skippedItemTypes = map[string]bool{
	"attachment": true,
	"note":       true,
	"annotation": true,
}

// Client is a Zotero Web API client for one library.
type Client struct {
	cfg    types.ZoteroConfig
	client *http.Client
}

// NewClient validates credentials and returns a client.
func NewClient(cfg types.ZoteroConfig) (*Client, error) {
	if cfg.APIKey == "" || cfg.UserID == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.LibraryType == "" {
		cfg.LibraryType = "user"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// libraryPrefix returns the API path prefix for the configured library.
func (c *Client) libraryPrefix() string {
	if c.cfg.LibraryType == "group" {
		return fmt.Sprintf("%s/groups/%s", zoteroAPIBase, c.cfg.UserID)
	}
	return fmt.Sprintf("%s/users/%s", zoteroAPIBase, c.cfg.UserID)
}

// FetchItems pages through the library and returns all document items in
// library order. Attachments, notes, and annotations are filtered out.
// The configured max-items cap truncates the fetch when positive.
func (c *Client) FetchItems(ctx context.Context, w io.Writer) ([]types.ReferenceDocument, error) {
	var documents []types.ReferenceDocument
	start := 0

	for {
		reqURL := fmt.Sprintf("%s/items?limit=%d&start=%d", c.libraryPrefix(), c.cfg.PageSize, start)

		var batch []zoteroItem
		if err := c.getJSON(ctx, reqURL, &batch); err != nil {
			return nil, fmt.Errorf("fetching library items: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		start += len(batch)

		for _, item := range batch {
			if skippedItemTypes[item.Data.ItemType] {
				continue
			}
			documents = append(documents, item.toReferenceDocument())
		}
		fmt.Fprintf(w, "fetched %d items (%d documents)\n", start, len(documents))

		if c.cfg.MaxItems > 0 && len(documents) >= c.cfg.MaxItems {
			documents = documents[:c.cfg.MaxItems]
			break
		}
		if len(batch) < c.cfg.PageSize {
			break
		}
	}
	return documents, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return fmt.Errorf("Zotero API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Zotero API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Zotero response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Zotero-API-Version", "3")
	req.Header.Set("Zotero-API-Key", c.cfg.APIKey)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
}

// Zotero Web API JSON structures.
type zoteroItem struct {
	Key     string         `json:"key"`
	Version int            `json:"version"`
	Data    zoteroItemData `json:"data"`
}

type zoteroItemData struct {
	ItemType         string          `json:"itemType"`
	Title            string          `json:"title"`
	AbstractNote     string          `json:"abstractNote"`
	Creators         []zoteroCreator `json:"creators"`
	Date             string          `json:"date"`
	PublicationTitle string          `json:"publicationTitle"`
	DOI              string          `json:"DOI"`
	URL              string          `json:"url"`
	Tags             []zoteroTag     `json:"tags"`
	DateAdded        string          `json:"dateAdded"`
	DateModified     string          `json:"dateModified"`
}

type zoteroCreator struct {
	CreatorType string `json:"creatorType"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	// Name is the single-field form some creators use instead of
	// first/last.
	Name string `json:"name,omitempty"`
}

type zoteroTag struct {
	Tag string `json:"tag"`
}

func (item zoteroItem) toReferenceDocument() types.ReferenceDocument {
	doc := types.ReferenceDocument{
		Key:          item.Key,
		ItemType:     item.Data.ItemType,
		Title:        item.Data.Title,
		Abstract:     item.Data.AbstractNote,
		Date:         item.Data.Date,
		Venue:        item.Data.PublicationTitle,
		DOI:          item.Data.DOI,
		URL:          item.Data.URL,
		DateAdded:    item.Data.DateAdded,
		DateModified: item.Data.DateModified,
	}
	for _, c := range item.Data.Creators {
		creator := types.Creator{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Role:      c.CreatorType,
		}
		if c.Name != "" {
			creator.LastName = c.Name
		}
		doc.Creators = append(doc.Creators, creator)
	}
	for _, t := range item.Data.Tags {
		doc.Tags = append(doc.Tags, t.Tag)
	}
	return doc
}
