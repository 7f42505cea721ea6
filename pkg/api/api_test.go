package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/genomehub/unisearch/pkg/config"
	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/monitor"
	"github.com/genomehub/unisearch/pkg/search"
	"github.com/genomehub/unisearch/pkg/sources"
	"github.com/genomehub/unisearch/pkg/version"
)

// newTestServer seeds homo_sapiens core and variation databases and returns
// the API over the full middleware chain.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.GetDefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.DataDir = t.TempDir()
	cfg.Species = map[string]config.SpeciesInfo{
		"homo_sapiens": {},
		"mus_musculus": {SearchIndexes: []string{"gene", "marker"}},
	}

	provider := db.NewProvider(cfg.DataDir)
	t.Cleanup(func() {
		if err := provider.Close(); err != nil {
			t.Errorf("closing provider: %v", err)
		}
	})

	service, err := search.NewService(cfg, sources.DefaultCatalog(), provider)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	human, err := service.Registry().Get("homo_sapiens")
	if err != nil {
		t.Fatalf("resolving homo_sapiens: %v", err)
	}
	core, err := provider.Create(human, "core")
	if err != nil {
		t.Fatalf("creating core: %v", err)
	}
	for _, args := range [][]any{
		{1, "ENSG001", "BRCA2", "breast cancer type 2 susceptibility protein"},
		{2, "ENSG002", "BRCA1", "breast cancer type 1 susceptibility protein"},
	} {
		if _, err := core.DB().Exec(
			"INSERT INTO gene (gene_id, stable_id, display_label, description) VALUES (?, ?, ?, ?)", args...); err != nil {
			t.Fatalf("seeding gene: %v", err)
		}
	}
	variation, err := provider.Create(human, "variation")
	if err != nil {
		t.Fatalf("creating variation: %v", err)
	}
	if _, err := variation.DB().Exec(
		"INSERT INTO variation (variation_id, name, source, allele_string) VALUES (1, 'rs699', 'dbSNP', 'A/G')"); err != nil {
		t.Fatalf("seeding variation: %v", err)
	}

	mon := monitor.New(provider, service.Registry(), time.Hour)
	mon.Probe(context.Background())

	ts := httptest.NewServer(NewServer(service, provider, mon).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, status int, out any) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("closing body: %v", err)
		}
	}()

	if resp.StatusCode != status {
		t.Fatalf("GET %s: status %d, want %d", url, resp.StatusCode, status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
}

func TestHandleSearch(t *testing.T) {
	ts := newTestServer(t)

	var resp SearchResponse
	getJSON(t, ts.URL+"/api/search?species=homo_sapiens&index=gene&q=ENSG001", http.StatusOK, &resp)

	if resp.Query != "ENSG001" || resp.Species != "homo_sapiens" || resp.Index != "gene" {
		t.Errorf("response header = %+v", resp)
	}
	if len(resp.Sources) != 1 || resp.Sources[0] != "gene" {
		t.Fatalf("Sources = %v", resp.Sources)
	}

	hits := resp.Results["gene"]
	if hits == nil || hits.Matched != 1 || len(hits.Results) != 1 {
		t.Fatalf("gene hits = %+v", hits)
	}
	if hits.Results[0].ID != "ENSG001" || hits.Results[0].Subtype != "Gene" {
		t.Errorf("result = %+v", hits.Results[0])
	}
	if resp.TotalMatched != 1 || resp.TotalFetched != 1 {
		t.Errorf("totals = %d/%d", resp.TotalMatched, resp.TotalFetched)
	}
}

func TestHandleSearchAcrossAllIndexes(t *testing.T) {
	ts := newTestServer(t)

	var resp SearchResponse
	getJSON(t, ts.URL+"/api/search?species=homo_sapiens&q=rs699", http.StatusOK, &resp)

	if resp.Index != "all" {
		t.Errorf("Index = %q, want all", resp.Index)
	}
	want := sources.DefaultCatalog().Names()
	if len(resp.Sources) != len(want) {
		t.Fatalf("Sources = %v, want all %d catalog entries", resp.Sources, len(want))
	}
	if hits := resp.Results["snp"]; hits == nil || hits.Matched != 1 {
		t.Errorf("snp hits = %+v", hits)
	}
}

func TestHandleSearchParameterValidation(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name   string
		query  string
		status int
	}{
		{"missing species", "q=BRCA2", http.StatusBadRequest},
		{"missing q", "species=homo_sapiens", http.StatusBadRequest},
		{"bad limit", "species=homo_sapiens&q=BRCA2&limit=abc", http.StatusBadRequest},
		{"negative limit", "species=homo_sapiens&q=BRCA2&limit=-3", http.StatusBadRequest},
		{"unknown species", "species=rattus_norvegicus&q=BRCA2", http.StatusNotFound},
		{"unknown index", "species=homo_sapiens&index=pathway&q=BRCA2", http.StatusBadRequest},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			var errResp ErrorResponse
			getJSON(t, ts.URL+"/api/search?"+tt.query, tt.status, &errResp)
			if errResp.Error == "" {
				t.Error("error response has no error field")
			}
		})
	}
}

func TestHandleListSpecies(t *testing.T) {
	ts := newTestServer(t)

	var resp ListSpeciesResponse
	getJSON(t, ts.URL+"/api/species", http.StatusOK, &resp)

	if resp.Count != 2 || len(resp.Species) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	human := resp.Species[0]
	if human.Name != "homo_sapiens" || human.Path != "Homo_sapiens" || human.DisplayName != "Homo sapiens" {
		t.Errorf("human = %+v", human)
	}
	// no explicit list means every index is enabled
	if len(human.SearchIndexes) != sources.DefaultCatalog().Len() {
		t.Errorf("human indexes = %v", human.SearchIndexes)
	}
	mouse := resp.Species[1]
	if len(mouse.SearchIndexes) != 2 {
		t.Errorf("mouse indexes = %v", mouse.SearchIndexes)
	}
}

func TestHandleListSources(t *testing.T) {
	ts := newTestServer(t)

	var resp ListSourcesResponse
	getJSON(t, ts.URL+"/api/sources", http.StatusOK, &resp)

	if resp.Count != sources.DefaultCatalog().Len() {
		t.Fatalf("Count = %d", resp.Count)
	}
	if resp.Sources[0].Name != "gene" {
		t.Errorf("first source = %+v", resp.Sources[0])
	}
	wantDBs := []string{"core", "vega", "otherfeatures"}
	if len(resp.Sources[0].Databases) != len(wantDBs) {
		t.Fatalf("gene databases = %v", resp.Sources[0].Databases)
	}
	for i, want := range wantDBs {
		if resp.Sources[0].Databases[i] != want {
			t.Errorf("gene database %d = %q, want %q", i, resp.Sources[0].Databases[i], want)
		}
	}
}

func TestHandleStatus(t *testing.T) {
	ts := newTestServer(t)

	var resp StatusResponse
	getJSON(t, ts.URL+"/api/status", http.StatusOK, &resp)

	// only core and variation exist on disk
	if resp.Status != "degraded" {
		t.Errorf("Status = %q", resp.Status)
	}
	if resp.Available != 2 {
		t.Errorf("Available = %d, want 2", resp.Available)
	}
	if resp.Total <= resp.Available {
		t.Errorf("Total = %d, want more than available", resp.Total)
	}
	if resp.CheckedAt.IsZero() {
		t.Error("CheckedAt is zero")
	}
}

func TestHandleStats(t *testing.T) {
	ts := newTestServer(t)

	var resp StatsResponse
	getJSON(t, ts.URL+"/api/stats", http.StatusOK, &resp)

	human := resp.Species["homo_sapiens"]
	if human == nil {
		t.Fatalf("stats = %+v", resp)
	}
	if human["core"].Tables["gene"] != 2 {
		t.Errorf("core stats = %+v", human["core"])
	}
	if human["variation"].Total != 1 {
		t.Errorf("variation stats = %+v", human["variation"])
	}
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)

	var resp HealthResponse
	getJSON(t, ts.URL+"/health", http.StatusOK, &resp)

	if resp.Status != "ok" {
		t.Errorf("Status = %q", resp.Status)
	}
	if resp.Version != version.APIVersion() {
		t.Errorf("Version = %q", resp.Version)
	}
	if resp.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
}

func TestMiddlewareHeaders(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("closing body: %v", err)
		}
	}()

	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing request ID header")
	}
}

func TestCorsPreflights(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/search", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("closing body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
