package gene

import (
	"testing"

	"github.com/genomehub/unisearch/pkg/core"
)

var human = core.SpeciesRef{Name: "homo_sapiens", Path: "Homo_sapiens"}

func TestNormalize(t *testing.T) {
	s := New()
	rows := []core.Row{
		{"ENSG001", "desc", "core", "Gene", "gene"},
	}

	results := s.Normalize(rows, human)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if r.ID != "ENSG001" {
		t.Errorf("ID = %q, want ENSG001", r.ID)
	}
	if r.Subtype != "Gene" {
		t.Errorf("Subtype = %q, want Gene", r.Subtype)
	}
	if r.Description != "desc" {
		t.Errorf("Description = %q, want desc", r.Description)
	}
	if r.Index != "gene" {
		t.Errorf("Index = %q, want gene", r.Index)
	}
	if r.Species != "homo_sapiens" {
		t.Errorf("Species = %q", r.Species)
	}
	if r.URL != "/Homo_sapiens/geneview?gene=ENSG001;db=core" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.Extra == nil || r.Extra.URL != "/Homo_sapiens/contigview?gene=ENSG001;db=core" {
		t.Errorf("Extra = %+v", r.Extra)
	}
}

func TestNormalizeFallbacks(t *testing.T) {
	s := New()
	rows := []core.Row{
		{"ENSG002", "", "vega", "Vega Gene", "gene"}, // no description
		{"", "orphan row", "core", "Gene", "gene"},   // no id, skipped
	}

	results := s.Normalize(rows, human)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (rows without an id are dropped)", len(results))
	}
	if results[0].Description != "novel gene" {
		t.Errorf("Description = %q, want novel gene", results[0].Description)
	}
	if results[0].Subtype != "Vega Gene" {
		t.Errorf("Subtype = %q, want Vega Gene", results[0].Subtype)
	}
	if results[0].URL != "/Homo_sapiens/geneview?gene=ENSG002;db=vega" {
		t.Errorf("URL = %q", results[0].URL)
	}
}

func TestNormalizePreservesOrder(t *testing.T) {
	s := New()
	rows := []core.Row{
		{"ENSG003", "third", "core", "Gene", "gene"},
		{"ENSG001", "first", "core", "Gene", "gene"},
		{"ENSG002", "second", "core", "Gene", "gene"},
	}

	results := s.Normalize(rows, human)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, want := range []string{"ENSG003", "ENSG001", "ENSG002"} {
		if results[i].ID != want {
			t.Errorf("results[%d].ID = %q, want %q", i, results[i].ID, want)
		}
	}
}
