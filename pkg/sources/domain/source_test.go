package domain

import (
	"testing"

	"github.com/genomehub/unisearch/pkg/core"
)

func TestNormalize(t *testing.T) {
	s := New()
	sp := core.SpeciesRef{Name: "homo_sapiens", Path: "Homo_sapiens"}

	rows := []core.Row{
		{"IPR000719", "Pkinase", "Protein kinase domain"},
		{"IPR001245", "Ser-Thr_kinase", ""},
		{"IPR999999", "", ""},
		{"", "orphan", "dropped"},
	}

	results := s.Normalize(rows, sp)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	first := results[0]
	if first.Index != "domain" || first.Subtype != "Interpro Domain" {
		t.Errorf("first = %+v", first)
	}
	if first.URL != "/Homo_sapiens/domainview?domainentry=IPR000719" {
		t.Errorf("URL = %q", first.URL)
	}
	if first.Description != "Protein kinase domain" {
		t.Errorf("Description = %q", first.Description)
	}

	if results[1].Description != "Ser-Thr_kinase" {
		t.Errorf("name fallback Description = %q", results[1].Description)
	}
	if results[2].Description != "protein domain" {
		t.Errorf("generic fallback Description = %q", results[2].Description)
	}
}

func TestQueriesUseCoreDatabase(t *testing.T) {
	for _, q := range New().Queries() {
		if q.Database != "core" {
			t.Errorf("query targets %q, want core", q.Database)
		}
		if q.FullText {
			t.Error("domain lookups are not full-text queries")
		}
	}
}
