package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func swapCrossrefBase(t *testing.T, url string) {
	t.Helper()
	old := crossrefAPIBase
	crossrefAPIBase = url
	t.Cleanup(func() { crossrefAPIBase = old })
}

func TestCrossrefFetch(t *testing.T) {
	var gotFilter, gotMailto string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filter")
		gotMailto = r.URL.Query().Get("mailto")
		fmt.Fprint(w, `{"message":{"total-results":2,"items":[
			{"title":["Paper A"],"abstract":"About A.","DOI":"10.1000/a","URL":"https://doi.org/10.1000/a",
			 "container-title":["Nature"],"author":[{"given":"Ada","family":"Lovelace"}],
			 "published-print":{"date-parts":[[2024,3,1]]}},
			{"title":["Paper B"],"DOI":"10.1000/b",
			 "published-online":{"date-parts":[[2024,3]]}}
		]}}`)
	}))
	defer ts.Close()
	swapCrossrefBase(t, ts.URL)

	cfg := testSourcesCfg()
	cfg.Mailto = "user@example.com"
	cfg.Crossref.Rows = 100

	src := &CrossrefSource{Client: ts.Client()}
	records, err := src.Fetch(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	a := records[0]
	if a.Title != "Paper A" || a.Journal != "Nature" || a.DOI != "10.1000/a" {
		t.Errorf("records[0] = %+v, fields not mapped", a)
	}
	if !reflect.DeepEqual(a.DateParts, []int{2024, 3, 1}) {
		t.Errorf("DateParts = %v, want [2024 3 1]", a.DateParts)
	}
	if len(a.Authors) != 1 || a.Authors[0].Family != "Lovelace" {
		t.Errorf("Authors = %+v, want Lovelace", a.Authors)
	}
	if a.Source != "crossref" {
		t.Errorf("Source = %q, want crossref", a.Source)
	}

	// Online-first date used when no print date exists.
	if !reflect.DeepEqual(records[1].DateParts, []int{2024, 3}) {
		t.Errorf("records[1].DateParts = %v, want [2024 3]", records[1].DateParts)
	}

	if gotFilter == "" || gotMailto != "user@example.com" {
		t.Errorf("query params filter=%q mailto=%q", gotFilter, gotMailto)
	}
}

func TestCrossrefFetchPaginates(t *testing.T) {
	var offsets []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offsets = append(offsets, r.URL.Query().Get("offset"))
		if len(offsets) == 1 {
			// Full page: fetch continues.
			fmt.Fprint(w, `{"message":{"items":[{"title":["One"]},{"title":["Two"]}]}}`)
			return
		}
		// Short page: fetch stops.
		fmt.Fprint(w, `{"message":{"items":[{"title":["Three"]}]}}`)
	}))
	defer ts.Close()
	swapCrossrefBase(t, ts.URL)

	cfg := testSourcesCfg()
	cfg.Crossref.Rows = 2
	cfg.Crossref.MaxPages = 10

	src := &CrossrefSource{Client: ts.Client()}
	records, err := src.Fetch(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Errorf("len(records) = %d, want 3", len(records))
	}
	if !reflect.DeepEqual(offsets, []string{"0", "2"}) {
		t.Errorf("offsets = %v, want [0 2]", offsets)
	}
}

func TestCrossrefFetchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	swapCrossrefBase(t, ts.URL)

	src := &CrossrefSource{Client: ts.Client()}
	if _, err := src.Fetch(context.Background(), testSourcesCfg()); err == nil {
		t.Fatal("Fetch should fail on HTTP 500")
	}
}
