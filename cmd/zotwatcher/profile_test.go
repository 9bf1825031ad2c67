package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pdiddy/zotwatcher/internal/embed"
	"github.com/pdiddy/zotwatcher/internal/profile"
	"github.com/pdiddy/zotwatcher/pkg/types"
)

func savedProfileDir(t *testing.T) string {
	t.Helper()
	documents := []types.ReferenceDocument{
		{Key: "KEY1", Title: "Paper A", Venue: "Nature", Tags: []string{"ml"}},
		{Key: "KEY2", Title: "Paper B", Venue: "Science"},
	}
	prof, err := profile.Build(context.Background(), documents, &embed.MockProvider{Dim: 4})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := profile.Save(prof, documents, dir); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestShowProfile(t *testing.T) {
	dir := savedProfileDir(t)

	var out bytes.Buffer
	if err := showProfile(&out, dir, 10, 0); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Items:   2", "Top venues", "Nature"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), "Stored items") {
		t.Errorf("item listing printed without --items:\n%s", out.String())
	}
}

func TestShowProfileListsStoredItems(t *testing.T) {
	dir := savedProfileDir(t)

	var out bytes.Buffer
	if err := showProfile(&out, dir, 10, 1); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "KEY1") || !strings.Contains(out.String(), "Paper A (Nature)") {
		t.Errorf("output missing first stored item:\n%s", out.String())
	}
	// The limit holds: only the first item is listed.
	if strings.Contains(out.String(), "KEY2") {
		t.Errorf("output lists more items than requested:\n%s", out.String())
	}
}

func TestShowProfileMissing(t *testing.T) {
	var out bytes.Buffer
	if err := showProfile(&out, t.TempDir(), 10, 0); err == nil {
		t.Fatal("showProfile should fail when no profile exists")
	}
}
