// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch is the profile-matching and ranking engine: it turns a
// heterogeneous stream of source records into a ranked, deduplicated
// recommendation list using semantic similarity against the profile,
// recency decay, and a configured preference bonus.
// See docs/ARCHITECTURE § Watch Engine.
package watch

import (
	"fmt"
	"strings"

	"github.com/pdiddy/zotwatcher/internal/sources"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

// Normalize maps one source record into the canonical candidate shape.
// Every field defaults to the empty string or an empty list, never nil,
// so scoring never branches on absence. Unparsable dates pass through as
// opaque strings; the scorer handles parse failure, not the normalizer.
func Normalize(rec sources.Record) types.CandidateDocument {
	c := types.CandidateDocument{
		Title:      strings.TrimSpace(rec.Title),
		Abstract:   strings.TrimSpace(rec.Abstract),
		Authors:    []string{},
		Date:       normalizeDate(rec),
		Journal:    strings.TrimSpace(rec.Journal),
		DOI:        strings.TrimSpace(rec.DOI),
		URL:        strings.TrimSpace(rec.URL),
		Source:     rec.Source,
		Categories: []string{},
	}

	for _, a := range rec.Authors {
		if name := authorName(a); name != "" {
			c.Authors = append(c.Authors, name)
		}
	}
	for _, cat := range rec.Categories {
		if cat = strings.TrimSpace(cat); cat != "" {
			c.Categories = append(c.Categories, cat)
		}
	}
	return c
}

// authorName flattens a source author into a plain "First Last" string.
func authorName(a sources.Author) string {
	if a.Literal != "" {
		return strings.TrimSpace(a.Literal)
	}
	return strings.TrimSpace(strings.TrimSpace(a.Given) + " " + strings.TrimSpace(a.Family))
}

// normalizeDate prefers an explicit date string; otherwise numeric
// date-parts are zero-padded and joined with "-" (e.g. [2024, 3] →
// "2024-03"), so a full year-month-day triple always lands in the
// "YYYY-MM-DD" shape the scorer parses. Zero parts are dropped the way
// absent parts are.
func normalizeDate(rec sources.Record) string {
	if d := strings.TrimSpace(rec.Date); d != "" {
		return d
	}
	var parts []string
	for i, p := range rec.DateParts {
		if p == 0 {
			continue
		}
		if i == 0 {
			parts = append(parts, fmt.Sprintf("%04d", p))
		} else {
			parts = append(parts, fmt.Sprintf("%02d", p))
		}
	}
	return strings.Join(parts, "-")
}
