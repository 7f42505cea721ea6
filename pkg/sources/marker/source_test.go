package marker

import (
	"testing"

	"github.com/genomehub/unisearch/pkg/core"
)

func TestNormalize(t *testing.T) {
	s := New()
	sp := core.SpeciesRef{Name: "danio_rerio", Path: "Danio_rerio"}

	results := s.Normalize([]core.Row{
		{"D13S317", "microsatellite"},
		{"Z12345", ""},
		{"", "est"},
	}, sp)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Description != "microsatellite marker" {
		t.Errorf("Description = %q", results[0].Description)
	}
	if results[0].URL != "/Danio_rerio/markerview?marker=D13S317" {
		t.Errorf("URL = %q", results[0].URL)
	}
	if results[1].Description != "genetic marker" {
		t.Errorf("fallback Description = %q", results[1].Description)
	}
	if results[0].Subtype != "Marker" || results[0].Index != "marker" {
		t.Errorf("result = %+v", results[0])
	}
}
