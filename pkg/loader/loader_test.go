package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/species"
)

func newTestLoader(t *testing.T) (*Loader, *db.Provider, *species.Species) {
	t.Helper()

	provider := db.NewProvider(t.TempDir())
	t.Cleanup(func() {
		if err := provider.Close(); err != nil {
			t.Errorf("closing provider: %v", err)
		}
	})

	sp, err := species.New(species.Definition{Name: "homo_sapiens"})
	if err != nil {
		t.Fatalf("species.New: %v", err)
	}
	return New(provider), provider, sp
}

func writeDump(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func writeGzipDump(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatalf("writing gzip: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing file: %v", err)
	}
}

func writeZstdDump(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatalf("creating zstd writer: %v", err)
	}
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatalf("writing zstd: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zstd: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing file: %v", err)
	}
}

const geneDump = "1\tENSG001\tBRCA2\tprotein_coding\tbreast cancer type 2 susceptibility protein\t13\t31787617\t31871805\n" +
	"2\tENSG002\tBRCA1\tprotein_coding\t\\N\t17\t100\t200\n" +
	"# comment lines are ignored\n" +
	"3\tENSG003\n"

func TestLoadFilePlain(t *testing.T) {
	l, provider, sp := newTestLoader(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "gene.tsv")
	writeDump(t, path, geneDump)

	stats, err := l.LoadFile(context.Background(), sp, "core", path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if stats.Table != "gene" || stats.Rows != 2 || stats.Skipped != 1 {
		t.Errorf("stats = %+v", stats)
	}

	database, err := provider.Get(sp, "core")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	var description interface{}
	if err := database.DB().QueryRow(
		"SELECT description FROM gene WHERE stable_id = 'ENSG002'").Scan(&description); err != nil {
		t.Fatalf("querying gene: %v", err)
	}
	if description != nil {
		t.Errorf("description = %v, want NULL from the \\N marker", description)
	}

	// the full-text sidecar is rebuilt with the load
	var matched int
	if err := database.DB().QueryRow(
		`SELECT COUNT(*) FROM gene_fts WHERE gene_fts MATCH '"breast"'`).Scan(&matched); err != nil {
		t.Fatalf("querying gene_fts: %v", err)
	}
	if matched != 1 {
		t.Errorf("gene_fts matched %d, want 1", matched)
	}
}

func TestLoadFileReloadIsIdempotent(t *testing.T) {
	l, provider, sp := newTestLoader(t)
	path := filepath.Join(t.TempDir(), "gene.tsv")
	writeDump(t, path, geneDump)

	for i := 0; i < 2; i++ {
		if _, err := l.LoadFile(context.Background(), sp, "core", path); err != nil {
			t.Fatalf("LoadFile round %d: %v", i+1, err)
		}
	}

	database, err := provider.Get(sp, "core")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var genes, indexed int
	if err := database.DB().QueryRow("SELECT COUNT(*) FROM gene").Scan(&genes); err != nil {
		t.Fatalf("counting genes: %v", err)
	}
	if err := database.DB().QueryRow("SELECT COUNT(*) FROM gene_fts").Scan(&indexed); err != nil {
		t.Fatalf("counting gene_fts: %v", err)
	}
	if genes != 2 || indexed != 2 {
		t.Errorf("after reload: %d genes, %d indexed, want 2/2", genes, indexed)
	}
}

func TestLoadFileGzip(t *testing.T) {
	l, provider, sp := newTestLoader(t)
	path := filepath.Join(t.TempDir(), "variation.tsv.gz")
	writeGzipDump(t, path, "1\trs699\tdbSNP\tA/G\tmissense_variant\n")

	stats, err := l.LoadFile(context.Background(), sp, "variation", path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if stats.Table != "variation" || stats.Rows != 1 {
		t.Errorf("stats = %+v", stats)
	}

	database, err := provider.Get(sp, "variation")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var name string
	if err := database.DB().QueryRow("SELECT name FROM variation WHERE variation_id = 1").Scan(&name); err != nil {
		t.Fatalf("querying variation: %v", err)
	}
	if name != "rs699" {
		t.Errorf("name = %q", name)
	}
}

func TestLoadFileZstd(t *testing.T) {
	l, provider, sp := newTestLoader(t)
	path := filepath.Join(t.TempDir(), "family.tsv.zst")
	writeZstdDump(t, path, "1\tENSFM001\tTyrosine kinase family\t12\n")

	stats, err := l.LoadFile(context.Background(), sp, "compara", path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if stats.Rows != 1 {
		t.Errorf("stats = %+v", stats)
	}

	database, err := provider.Get(sp, "compara")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var matched int
	if err := database.DB().QueryRow(
		`SELECT COUNT(*) FROM family_fts WHERE family_fts MATCH '"kinase"'`).Scan(&matched); err != nil {
		t.Fatalf("querying family_fts: %v", err)
	}
	if matched != 1 {
		t.Errorf("family_fts matched %d, want 1", matched)
	}
}

func TestLoadFileUnknownTable(t *testing.T) {
	l, _, sp := newTestLoader(t)
	path := filepath.Join(t.TempDir(), "protein.tsv")
	writeDump(t, path, "1\tP12345\n")

	if _, err := l.LoadFile(context.Background(), sp, "core", path); err == nil {
		t.Fatal("LoadFile accepted an unknown table")
	}
}

func TestLoadDir(t *testing.T) {
	l, _, sp := newTestLoader(t)
	dir := t.TempDir()
	writeDump(t, filepath.Join(dir, "gene.tsv"), geneDump)
	writeDump(t, filepath.Join(dir, "marker.tsv"), "1\tD13S317\tmicrosatellite\n")
	writeDump(t, filepath.Join(dir, "notes.txt"), "not a dump\n")
	writeDump(t, filepath.Join(dir, "variation.tsv"), "ignored, wrong logical\n")

	all, err := l.LoadDir(context.Background(), sp, "core", dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("loaded %d files, want 2: %+v", len(all), all)
	}
	// file name order
	if all[0].Table != "gene" || all[1].Table != "marker" {
		t.Errorf("tables = %s, %s", all[0].Table, all[1].Table)
	}
}

func TestLoadDirEmpty(t *testing.T) {
	l, _, sp := newTestLoader(t)
	if _, err := l.LoadDir(context.Background(), sp, "core", t.TempDir()); err == nil {
		t.Fatal("LoadDir accepted a directory without dumps")
	}
}

func TestTableForFile(t *testing.T) {
	cases := map[string]string{
		"gene.tsv":               "gene",
		"gene.tsv.gz":            "gene",
		"gene.tsv.zst":           "gene",
		"/data/dumps/marker.tsv": "marker",
	}
	for path, want := range cases {
		if got := TableForFile(path); got != want {
			t.Errorf("TableForFile(%q) = %q, want %q", path, got, want)
		}
	}
}
