package db

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Schemas maps each logical database name to its DDL, loaded from the
// embedded schema files at startup.
var Schemas = loadSchemas()

func loadSchemas() map[string]string {
	entries, err := schemaFS.ReadDir("schema")
	if err != nil {
		panic(fmt.Sprintf("reading embedded schema directory: %v", err))
	}

	schemas := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		content, err := schemaFS.ReadFile("schema/" + name)
		if err != nil {
			panic(fmt.Sprintf("reading embedded schema %s: %v", name, err))
		}
		schemas[strings.TrimSuffix(name, ".sql")] = string(content)
	}
	return schemas
}

// Logicals returns the known logical database names, sorted.
func Logicals() []string {
	names := make([]string, 0, len(Schemas))
	for name := range Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasSchema reports whether a logical database is known.
func HasSchema(logical string) bool {
	_, ok := Schemas[logical]
	return ok
}

// FTSSidecar names a full-text table fed alongside a content table, and the
// content columns that populate it.
type FTSSidecar struct {
	Table   string
	Columns []string
}

// tableColumns fixes the loadable column order per (logical database, table).
// The loader builds its INSERT statements from these lists, so dump files
// must carry the columns in this order.
var tableColumns = map[string]map[string][]string{
	"core": {
		"gene":                  {"gene_id", "stable_id", "display_label", "biotype", "description", "seq_region", "seq_start", "seq_end"},
		"gene_synonym":          {"gene_id", "synonym"},
		"seq_region":            {"seq_region_id", "name", "coord_system", "length"},
		"assembly":              {"cmp_seq_region_id", "asm_name", "asm_start", "asm_end"},
		"interpro":              {"accession", "name", "description"},
		"marker":                {"marker_id", "name", "type"},
		"marker_synonym":        {"marker_id", "name", "source"},
		"qtl":                   {"qtl_id", "trait", "source", "chromosome", "peak_start", "peak_end"},
		"dna_align_feature":     {"feature_id", "hit_name", "analysis", "evalue"},
		"protein_align_feature": {"feature_id", "hit_name", "analysis", "evalue"},
	},
	"vega": {
		"gene":         {"gene_id", "stable_id", "display_label", "biotype", "description", "seq_region", "seq_start", "seq_end"},
		"gene_synonym": {"gene_id", "synonym"},
	},
	"otherfeatures": {
		"gene":              {"gene_id", "stable_id", "display_label", "biotype", "description", "seq_region", "seq_start", "seq_end"},
		"dna_align_feature": {"feature_id", "hit_name", "analysis", "evalue"},
	},
	"variation": {
		"variation":         {"variation_id", "name", "source", "allele_string", "consequence"},
		"variation_synonym": {"variation_id", "name", "source"},
	},
	"funcgen": {
		"probe_set": {"probe_set_id", "name", "array_name", "size"},
	},
	"compara": {
		"family": {"family_id", "stable_id", "description", "member_count"},
	},
}

// ftsSidecars lists the full-text tables maintained next to content tables.
var ftsSidecars = map[string]map[string]FTSSidecar{
	"core": {
		"gene": {Table: "gene_fts", Columns: []string{"stable_id", "description"}},
	},
	"compara": {
		"family": {Table: "family_fts", Columns: []string{"stable_id", "description"}},
	},
}

// TableColumns returns the loadable column list for a table.
func TableColumns(logical, table string) ([]string, bool) {
	tables, ok := tableColumns[logical]
	if !ok {
		return nil, false
	}
	cols, ok := tables[table]
	return cols, ok
}

// Tables returns the loadable tables of a logical database, sorted.
func Tables(logical string) []string {
	tables, ok := tableColumns[logical]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sidecar returns the full-text sidecar for a table, if it has one.
func Sidecar(logical, table string) (FTSSidecar, bool) {
	tables, ok := ftsSidecars[logical]
	if !ok {
		return FTSSidecar{}, false
	}
	sc, ok := tables[table]
	return sc, ok
}
