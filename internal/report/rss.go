// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders ranked candidates into the output artifacts:
// an RSS 2.0 feed, an HTML report, and a YAML digest.
// See docs/ARCHITECTURE § Output.
package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/zotwatcher/pkg/types"
)

// rssTimeNow stamps the feed build date. Tests pin it for stable output.
var rssTimeNow = time.Now

// WriteRSS writes the ranked list as an RSS 2.0 feed. Feed readers poll
// the file directly; item GUIDs are DOIs where present so re-runs do not
// resurface already-read entries.
func WriteRSS(path string, ranked []types.ScoredCandidate) error {
	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:         "zotwatcher digest",
			Link:          "https://github.com/pdiddy/zotwatcher",
			Description:   "Recent papers ranked by relevance to your reference library",
			LastBuildDate: rssTimeNow().UTC().Format(time.RFC1123Z),
		},
	}

	for _, sc := range ranked {
		item := rssItem{
			Title:       sc.Title,
			Link:        sc.URL,
			Description: itemDescription(sc),
			GUID:        itemGUID(sc),
		}
		if pub, err := time.Parse("2006-01-02", sc.Date); err == nil {
			item.PubDate = pub.UTC().Format(time.RFC1123Z)
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	data, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling RSS feed: %w", err)
	}
	data = append([]byte(xml.Header), data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing RSS feed: %w", err)
	}
	return nil
}

// itemDescription summarizes the score breakdown and truncates the
// abstract to keep feed entries short.
func itemDescription(sc types.ScoredCandidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score %.3f (semantic %.3f, recency %.3f, whitelist %.3f) — %s via %s.",
		sc.TotalScore, sc.Scores.Semantic, sc.Scores.Time, sc.Scores.Whitelist, sc.Journal, sc.Source)
	if sc.Abstract != "" {
		b.WriteString(" ")
		b.WriteString(truncate(sc.Abstract, 500))
	}
	return b.String()
}

func itemGUID(sc types.ScoredCandidate) rssGUID {
	if sc.DOI != "" {
		return rssGUID{Value: "https://doi.org/" + sc.DOI, IsPermaLink: true}
	}
	return rssGUID{Value: sc.Title, IsPermaLink: false}
}

// truncate cuts s to at most n bytes, backing up to a rune boundary so
// a multi-byte character is never split.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 {
		if r, size := utf8.DecodeLastRuneInString(cut); r != utf8.RuneError || size > 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut + "…"
}

// RSS 2.0 XML structures.
type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link,omitempty"`
	Description string  `xml:"description"`
	PubDate     string  `xml:"pubDate,omitempty"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}
