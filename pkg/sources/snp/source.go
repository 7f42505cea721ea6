// Package snp searches sequence variants by name and synonym.
package snp

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
	return "snp"
}

// Queries returns the variant lookups. Raw row shape: (name, source,
// allele_string).
func (s *Source) Queries() []core.Query {
	return []core.Query{
		{
			Database: "variation",
			Count:    "SELECT COUNT(*) FROM variation WHERE name %s",
			Fetch:    "SELECT name, source, COALESCE(allele_string, '') FROM variation WHERE name %s ORDER BY name LIMIT ?",
		},
		{
			Database: "variation",
			Count:    "SELECT COUNT(*) FROM variation v JOIN variation_synonym s ON s.variation_id = v.variation_id WHERE s.name %s",
			Fetch:    "SELECT v.name, v.source, COALESCE(v.allele_string, '') FROM variation v JOIN variation_synonym s ON s.variation_id = v.variation_id WHERE s.name %s ORDER BY v.name LIMIT ?",
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

		source := row.Field(1)
		if source == "" {
			source = "dbSNP"
		}
		description := fmt.Sprintf("%s variant", source)
		if alleles := row.Field(2); alleles != "" {
			description = fmt.Sprintf("%s variant with alleles %s", source, alleles)
		}

		results = append(results, core.Result{
			Index:       s.Name(),
			Subtype:     "SNP",
			ID:          id,
			URL:         fmt.Sprintf("/%s/snpview?snp=%s", sp.Path, url.QueryEscape(id)),
			Description: description,
			Species:     sp.Name,
		})
	}
	return results
}
