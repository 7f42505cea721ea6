package core

import "testing"

func TestResultSetOrderAndTotals(t *testing.T) {
	rs := NewResultSet("BRCA*", "homo_sapiens")
	if !rs.Empty() {
		t.Fatal("fresh result set should be empty")
	}

	rs.Add("gene", &SourceHits{
		Results: []Result{{Index: "gene", ID: "ENSG001"}, {Index: "gene", ID: "ENSG002"}},
		Matched: 25,
	})
	rs.Add("snp", &SourceHits{Matched: 0})
	rs.Add("marker", &SourceHits{
		Results: []Result{{Index: "marker", ID: "D1S243"}},
		Matched: 1,
	})

	want := []string{"gene", "snp", "marker"}
	got := rs.Sources()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sources()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if rs.TotalMatched() != 26 {
		t.Errorf("TotalMatched() = %d, want 26", rs.TotalMatched())
	}
	if rs.TotalFetched() != 3 {
		t.Errorf("TotalFetched() = %d, want 3", rs.TotalFetched())
	}
	if rs.Empty() {
		t.Error("result set with entries reported Empty")
	}
}

func TestResultSetZeroHitsEntryIsRecorded(t *testing.T) {
	// A source that ran and found nothing still contributes an entry; only a
	// blank query produces a set without entries.
	rs := NewResultSet("nosuchthing", "homo_sapiens")
	rs.Add("qtl", &SourceHits{})

	if rs.Empty() {
		t.Fatal("set with a zero-hit entry must not be Empty")
	}
	h, ok := rs.Hits("qtl")
	if !ok {
		t.Fatal("expected qtl entry")
	}
	if len(h.Results) != 0 || h.Matched != 0 {
		t.Errorf("qtl entry = (%d results, %d matched), want (0, 0)", len(h.Results), h.Matched)
	}
}

func TestResultSetAddNilHits(t *testing.T) {
	rs := NewResultSet("x", "homo_sapiens")
	rs.Add("probe", nil)

	h, ok := rs.Hits("probe")
	if !ok || h == nil {
		t.Fatal("nil hits should be recorded as an empty entry")
	}
}

func TestResultSetReAddKeepsPosition(t *testing.T) {
	rs := NewResultSet("x", "homo_sapiens")
	rs.Add("gene", &SourceHits{Matched: 1})
	rs.Add("snp", &SourceHits{Matched: 2})
	rs.Add("gene", &SourceHits{Matched: 9})

	got := rs.Sources()
	if len(got) != 2 || got[0] != "gene" || got[1] != "snp" {
		t.Fatalf("Sources() = %v, want [gene snp]", got)
	}
	h, _ := rs.Hits("gene")
	if h.Matched != 9 {
		t.Errorf("re-added gene Matched = %d, want 9", h.Matched)
	}
}
