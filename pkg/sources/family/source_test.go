package family

import (
	"testing"

	"github.com/genomehub/unisearch/pkg/core"
)

func TestNormalize(t *testing.T) {
	s := New()
	sp := core.SpeciesRef{Name: "mus_musculus", Path: "Mus_musculus"}

	rows := []core.Row{
		{"ENSFM00250000000123", "Tyrosine protein kinase", "42"},
		{"ENSFM00250000000456", "", "0"},
		{"ENSFM00250000000789", "Uncharacterised", ""},
	}

	results := s.Normalize(rows, sp)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	if results[0].Description != "Tyrosine protein kinase (42 members)" {
		t.Errorf("Description = %q", results[0].Description)
	}
	if results[0].URL != "/Mus_musculus/familyview?family=ENSFM00250000000123" {
		t.Errorf("URL = %q", results[0].URL)
	}
	if results[0].Subtype != "Family" || results[0].Species != "mus_musculus" {
		t.Errorf("result = %+v", results[0])
	}

	// zero or absent member counts stay out of the description
	if results[1].Description != "protein family" {
		t.Errorf("empty Description = %q", results[1].Description)
	}
	if results[2].Description != "Uncharacterised" {
		t.Errorf("countless Description = %q", results[2].Description)
	}
}

func TestQueries(t *testing.T) {
	queries := New().Queries()
	if len(queries) != 2 {
		t.Fatalf("got %d queries, want 2", len(queries))
	}
	for _, q := range queries {
		if q.Database != "compara" {
			t.Errorf("query targets %q, want compara", q.Database)
		}
	}
	if queries[0].FullText {
		t.Error("stable ID lookup flagged as full-text")
	}
	if !queries[1].FullText {
		t.Error("description lookup not flagged as full-text")
	}
}
