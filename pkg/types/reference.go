// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the zotwatcher pipeline.
// See docs/ARCHITECTURE § Data Model.
package types

// Creator is a contributor to a reference item (author, editor, translator).
type Creator struct {
	// FirstName is the given name as stored in the library.
	FirstName string `json:"first_name" yaml:"first_name"`

	// LastName is the family name as stored in the library.
	LastName string `json:"last_name" yaml:"last_name"`

	// Role is the creator type (e.g. "author", "editor").
	Role string `json:"role" yaml:"role"`
}

// Name returns the display name "First Last", trimmed. Either part may be
// empty; a creator with no name at all yields "".
func (c Creator) Name() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// ReferenceDocument is one item from the user's reference library. It is
// the unit the profile is built from and is immutable once fetched.
type ReferenceDocument struct {
	// Key is the library's unique item key.
	Key string `json:"key" yaml:"key"`

	// ItemType is the library item type (e.g. "journalArticle", "preprint").
	ItemType string `json:"item_type" yaml:"item_type"`

	// Title is the item title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the item abstract, possibly empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Creators lists contributors in library order.
	Creators []Creator `json:"creators" yaml:"creators"`

	// Date is the publication date as stored, in whatever partial form the
	// library holds (e.g. "2024", "2024-03-01").
	Date string `json:"date" yaml:"date"`

	// Venue is the publication title (journal or conference), possibly empty.
	Venue string `json:"venue" yaml:"venue"`

	// DOI is the item DOI, possibly empty.
	DOI string `json:"doi" yaml:"doi"`

	// URL is the item URL, possibly empty.
	URL string `json:"url" yaml:"url"`

	// Tags is the item's tag list.
	Tags []string `json:"tags" yaml:"tags"`

	// DateAdded and DateModified are library bookkeeping timestamps.
	DateAdded    string `json:"date_added" yaml:"date_added"`
	DateModified string `json:"date_modified" yaml:"date_modified"`
}

// FrequencyCount is a name with its occurrence count across the library.
type FrequencyCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// ProfileStatistics holds aggregate counts derived from the reference
// library: the most frequent authors, venues, and tags. Recomputed from
// scratch on every full profile build.
type ProfileStatistics struct {
	// ItemCount is the number of reference documents the profile was built from.
	ItemCount int `json:"item_count" yaml:"item_count"`

	// TopAuthors lists the most frequent authors/editors, descending by count.
	TopAuthors []FrequencyCount `json:"top_authors" yaml:"top_authors"`

	// TopVenues lists the most frequent publication venues, descending by count.
	TopVenues []FrequencyCount `json:"top_venues" yaml:"top_venues"`

	// TopTags lists the most frequent tags, descending by count.
	TopTags []FrequencyCount `json:"top_tags" yaml:"top_tags"`
}
