package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/genomehub/unisearch/pkg/config"
	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/loader"
	"github.com/genomehub/unisearch/pkg/search"
	"github.com/genomehub/unisearch/pkg/sources"
	"github.com/genomehub/unisearch/pkg/species"
)

// testStack is the full pipeline under test: configuration, database
// provider and search service sharing one temporary data directory.
type testStack struct {
	cfg      *config.Config
	provider *db.Provider
	service  *search.Service
}

// newTestStack builds a two-species deployment. mus_musculus restricts its
// search indexes; homo_sapiens enables everything.
func newTestStack(t *testing.T) *testStack {
	t.Helper()

	cfg, err := config.GetDefaultConfig()
	if err != nil {
		t.Fatalf("Failed to build default config: %v", err)
	}
	cfg.DataDir = t.TempDir()
	cfg.Species = map[string]config.SpeciesInfo{
		"homo_sapiens": {},
		"mus_musculus": {SearchIndexes: []string{"gene", "marker"}},
	}

	provider := db.NewProvider(cfg.DataDir)
	t.Cleanup(func() {
		if err := provider.Close(); err != nil {
			t.Errorf("Failed to close provider: %v", err)
		}
	})

	service, err := search.NewService(cfg, sources.DefaultCatalog(), provider)
	if err != nil {
		t.Fatalf("Failed to create search service: %v", err)
	}

	return &testStack{cfg: cfg, provider: provider, service: service}
}

func (s *testStack) species(t *testing.T, name string) *species.Species {
	t.Helper()
	sp, err := s.service.Registry().Get(name)
	if err != nil {
		t.Fatalf("Failed to resolve species %s: %v", name, err)
	}
	return sp
}

// writeDump writes a plain tab-separated dump file.
func writeDump(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write dump %s: %v", name, err)
	}
}

// writeGzipDump writes a gzip-compressed tab-separated dump file.
func writeGzipDump(t *testing.T, dir, name, content string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("Failed to create dump %s: %v", name, err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write gzip dump: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("Failed to close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close dump file: %v", err)
	}
}

// Dump fixtures, columns in schema order. \N marks NULL.

const geneDump = "1\tENSG001\tBRCA2\tprotein_coding\tbreast cancer type 2 susceptibility protein\t13\t31787617\t31871805\n" +
	"2\tENSG002\tBRCA1\tprotein_coding\tbreast cancer type 1 susceptibility protein\t17\t43044295\t43125364\n" +
	"3\tENSG003\tTP53\tprotein_coding\ttumor protein p53\t17\t7661779\t7687550\n"

const geneSynonymDump = "1\tFANCD1\n" +
	"3\tLFS1\n"

const seqRegionDump = "10\tAL117382.12\tclone\t150000\n" +
	"20\t20\tchromosome\t64444167\n"

const assemblyDump = "10\t20\t1000000\t1150000\n"

const markerDump = "1\tD13S171\tmicrosatellite\n" +
	"2\tD17S855\tmicrosatellite\n"

const qtlDump = "1\ttail length\tAnimalQTLdb\t11\t3200000\t5800000\n"

const alignmentDump = "1\tAL137047.13\tblastn\t0.001\n"

const variationDump = "1\trs699\tdbSNP\tA/G\tmissense_variant\n" +
	"2\trs4988235\tdbSNP\tC/T\tintron_variant\n"

const familyDump = "1\tENSFM001\tBRCA2 DNA repair associated family\t12\n" +
	"2\tENSFM002\tserine threonine kinase family\t48\n"

const probeSetDump = "1\t202000_at\tHG-U133A\t11\n"

// loadFixtures imports a realistic slice of annotation for homo_sapiens:
// core genes with synonyms, markers, a QTL and an alignment, plus variation,
// compara and funcgen databases. The vega and otherfeatures databases are
// deliberately left undeployed.
func loadFixtures(t *testing.T, stack *testStack) {
	t.Helper()
	ctx := context.Background()

	human := stack.species(t, "homo_sapiens")
	ldr := loader.New(stack.provider)

	coreDir := t.TempDir()
	writeDump(t, coreDir, "gene.tsv", geneDump)
	writeDump(t, coreDir, "gene_synonym.tsv", geneSynonymDump)
	writeDump(t, coreDir, "seq_region.tsv", seqRegionDump)
	writeDump(t, coreDir, "assembly.tsv", assemblyDump)
	writeGzipDump(t, coreDir, "marker.tsv.gz", markerDump)
	writeDump(t, coreDir, "qtl.tsv", qtlDump)
	writeDump(t, coreDir, "dna_align_feature.tsv", alignmentDump)
	if _, err := ldr.LoadDir(ctx, human, "core", coreDir); err != nil {
		t.Fatalf("Failed to load core dumps: %v", err)
	}

	variationDir := t.TempDir()
	writeDump(t, variationDir, "variation.tsv", variationDump)
	if _, err := ldr.LoadDir(ctx, human, "variation", variationDir); err != nil {
		t.Fatalf("Failed to load variation dumps: %v", err)
	}

	comparaDir := t.TempDir()
	writeGzipDump(t, comparaDir, "family.tsv.gz", familyDump)
	if _, err := ldr.LoadDir(ctx, human, "compara", comparaDir); err != nil {
		t.Fatalf("Failed to load compara dumps: %v", err)
	}

	funcgenDir := t.TempDir()
	writeDump(t, funcgenDir, "probe_set.tsv", probeSetDump)
	if _, err := ldr.LoadDir(ctx, human, "funcgen", funcgenDir); err != nil {
		t.Fatalf("Failed to load funcgen dumps: %v", err)
	}
}
