package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestTopJournalsFetch(t *testing.T) {
	var venues []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		venues = append(venues, r.URL.Query().Get("query.container-title"))
		fmt.Fprint(w, `{"message":{"items":[{"title":["From `+r.URL.Query().Get("query.container-title")+`"],"container-title":["X"]}]}}`)
	}))
	defer ts.Close()
	swapCrossrefBase(t, ts.URL)

	cfg := testSourcesCfg()
	cfg.TopJournals.MaxJournals = 2

	src := &TopJournalsSource{
		Client: ts.Client(),
		Venues: []string{"Nature", "Science", "Cell"},
	}
	records, err := src.Fetch(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Only the top two venues are queried.
	if !reflect.DeepEqual(venues, []string{"Nature", "Science"}) {
		t.Errorf("queried venues = %v, want [Nature Science]", venues)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	for _, rec := range records {
		if rec.Source != "top_journals" {
			t.Errorf("Source = %q, want top_journals", rec.Source)
		}
	}
}

func TestTopJournalsFetchNoVenues(t *testing.T) {
	src := &TopJournalsSource{Client: http.DefaultClient}
	if _, err := src.Fetch(context.Background(), testSourcesCfg()); err == nil {
		t.Fatal("Fetch with no venues should return an error")
	}
}

func TestTopJournalsFetchVenueFailureAborts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()
	swapCrossrefBase(t, ts.URL)

	src := &TopJournalsSource{Client: ts.Client(), Venues: []string{"Nature"}}
	if _, err := src.Fetch(context.Background(), testSourcesCfg()); err == nil {
		t.Fatal("Fetch should fail when a venue query fails")
	}
}
