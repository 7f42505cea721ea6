package probe

import (
	"testing"

	"github.com/genomehub/unisearch/pkg/core"
)

func TestNormalize(t *testing.T) {
	s := New()
	sp := core.SpeciesRef{Name: "homo_sapiens", Path: "Homo_sapiens"}

	results := s.Normalize([]core.Row{
		{"201250_s_at", "HG-U133A"},
		{"AFFX-BioB-5_at", ""},
	}, sp)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Description != "probe set on array HG-U133A" {
		t.Errorf("Description = %q", results[0].Description)
	}
	if results[0].URL != "/Homo_sapiens/featureview?id=201250_s_at;type=OligoProbe" {
		t.Errorf("URL = %q", results[0].URL)
	}
	if results[0].Subtype != "OligoProbe" {
		t.Errorf("Subtype = %q", results[0].Subtype)
	}
	if results[1].Description != "microarray probe set" {
		t.Errorf("fallback Description = %q", results[1].Description)
	}
}

func TestQueriesTargetFuncgen(t *testing.T) {
	for _, q := range New().Queries() {
		if q.Database != "funcgen" {
			t.Errorf("query targets %q, want funcgen", q.Database)
		}
	}
}
