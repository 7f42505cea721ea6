// Package gene searches gene annotation by stable ID, display name, synonym
// and description, across the primary build plus the curated and EST-based
// annotation databases.
package gene

import (
	"fmt"
	"net/url"

	"github.com/genomehub/unisearch/pkg/core"
)

type Source struct{}

func New() *Source {
	return &Source{}
}

func (s *Source) Name() string {
	return "gene"
}

// Queries returns the gene lookups in execution order. Every fetch selects
// the same raw row shape: (stable_id, description, database, subtype, index).
func (s *Source) Queries() []core.Query {
	return []core.Query{
		{
			Database: "core",
			Count:    "SELECT COUNT(*) FROM gene WHERE stable_id %s",
			Fetch:    "SELECT stable_id, COALESCE(description, ''), 'core', 'Gene', 'gene' FROM gene WHERE stable_id %s ORDER BY stable_id LIMIT ?",
		},
		{
			Database: "core",
			Count:    "SELECT COUNT(*) FROM gene WHERE display_label %s",
			Fetch:    "SELECT stable_id, COALESCE(description, ''), 'core', 'Gene', 'gene' FROM gene WHERE display_label %s ORDER BY stable_id LIMIT ?",
		},
		{
			Database: "core",
			Count:    "SELECT COUNT(*) FROM gene g JOIN gene_synonym s ON s.gene_id = g.gene_id WHERE s.synonym %s",
			Fetch:    "SELECT g.stable_id, COALESCE(g.description, ''), 'core', 'Gene', 'gene' FROM gene g JOIN gene_synonym s ON s.gene_id = g.gene_id WHERE s.synonym %s ORDER BY g.stable_id LIMIT ?",
		},
		{
			Database: "core",
			Count:    "SELECT COUNT(*) FROM gene_fts WHERE gene_fts MATCH ?",
			Fetch:    "SELECT stable_id, description, 'core', 'Gene', 'gene' FROM gene_fts WHERE gene_fts MATCH ? ORDER BY bm25(gene_fts) LIMIT ?",
			FullText: true,
		},
		{
			Database: "vega",
			Count:    "SELECT COUNT(*) FROM gene WHERE stable_id %s",
			Fetch:    "SELECT stable_id, COALESCE(description, ''), 'vega', 'Vega Gene', 'gene' FROM gene WHERE stable_id %s ORDER BY stable_id LIMIT ?",
		},
		{
			Database: "otherfeatures",
			Count:    "SELECT COUNT(*) FROM gene WHERE stable_id %s",
			Fetch:    "SELECT stable_id, COALESCE(description, ''), 'otherfeatures', 'EST Gene', 'gene' FROM gene WHERE stable_id %s ORDER BY stable_id LIMIT ?",
		},
	}
}

func (s *Source) Normalize(rows []core.Row, sp core.SpeciesRef) []core.Result {
	results := make([]core.Result, 0, len(rows))
	for _, row := range rows {
		id := row.Field(0)
		if id == "" {
			continue
		}

		database := row.Field(2)
		description := row.Field(1)
		if description == "" {
			description = "novel gene"
		}
		index := row.Field(4)
		if index == "" {
			index = s.Name()
		}

		results = append(results, core.Result{
			Index:   index,
			Subtype: row.Field(3),
			ID:      id,
			URL:     fmt.Sprintf("/%s/geneview?gene=%s;db=%s", sp.Path, url.QueryEscape(id), database),
			Extra: &core.ExtraLink{
				Label: "region",
				Title: "View gene in genomic location",
				URL:   fmt.Sprintf("/%s/contigview?gene=%s;db=%s", sp.Path, url.QueryEscape(id), database),
			},
			Description: description,
			Species:     sp.Name,
		})
	}
	return results
}
