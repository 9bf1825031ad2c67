// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources queries bibliographic APIs for recently published
// documents. Each backend (Crossref, arXiv, bioRxiv/medRxiv, top
// journals) implements the Source interface per the Strategy pattern;
// FetchAll fans out to all enabled backends concurrently and collects
// their records before the engine runs.
// See docs/ARCHITECTURE § Candidate Sources.
package sources

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/zotwatcher/pkg/types"
)

// Author is a contributor name in whatever split a source provides.
// Literal takes precedence when set; otherwise Given and Family are
// joined by the normalizer.
type Author struct {
	Given   string
	Family  string
	Literal string
}

// Record is the loose, source-specific shape handed to the candidate
// normalizer. Dates may arrive as an opaque string or as numeric
// date-parts; the normalizer reconciles both forms.
type Record struct {
	Title      string
	Abstract   string
	Authors    []Author
	Date       string
	DateParts  []int
	Journal    string
	DOI        string
	URL        string
	Source     string
	Categories []string
}

// Source fetches recent records from a single bibliographic API.
type Source interface {
	Name() string
	Fetch(ctx context.Context, cfg types.SourcesConfig) ([]Record, error)
}

// FetchAll fans the fetch out to all backends concurrently and collects
// every record before returning. A failing backend is logged and
// contributes zero records; it never aborts the pass.
func FetchAll(ctx context.Context, backends []Source, cfg types.SourcesConfig, w io.Writer) ([]Record, []string) {
	type fetchResult struct {
		records []Record
		err     error
		name    string
	}

	ch := make(chan fetchResult, len(backends))
	var wg sync.WaitGroup

	for _, b := range backends {
		wg.Add(1)
		go func(b Source) {
			defer wg.Done()
			records, err := b.Fetch(ctx, cfg)
			ch <- fetchResult{records: records, err: err, name: b.Name()}
		}(b)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []Record
	var sourceErrors []string
	for fr := range ch {
		if fr.err != nil {
			sourceErrors = append(sourceErrors, fmt.Sprintf("%s: %v", fr.name, fr.err))
			fmt.Fprintf(w, "warning: source %s failed: %v\n", fr.name, fr.err)
			continue
		}
		fmt.Fprintf(w, "%s: %d records\n", fr.name, len(fr.records))
		all = append(all, fr.records...)
	}
	return all, sourceErrors
}
