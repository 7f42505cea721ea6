// Package qtl searches quantitative trait loci by the trait they affect.
package qtl

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
	return "qtl"
}

func (s *Source) Queries() []core.Query {
	return []core.Query{
		{
			Database: "core",
			Count:    "SELECT COUNT(*) FROM qtl WHERE trait %s",
			Fetch: "SELECT trait, COALESCE(source, ''), COALESCE(chromosome, ''), " +
				"CAST(COALESCE(peak_start, 0) AS TEXT), CAST(COALESCE(peak_end, 0) AS TEXT) " +
				"FROM qtl WHERE trait %s ORDER BY trait LIMIT ?",
		},
	}
}

func (s *Source) Normalize(rows []core.Row, sp core.SpeciesRef) []core.Result {
	results := make([]core.Result, 0, len(rows))
	for _, row := range rows {
		trait := row.Field(0)
		if trait == "" {
			continue
		}

		description := "quantitative trait locus"
		if source := row.Field(1); source != "" {
			description = fmt.Sprintf("quantitative trait locus from %s", source)
		}

		result := core.Result{
			Index:       s.Name(),
			Subtype:     "QTL",
			ID:          trait,
			Description: description,
			Species:     sp.Name,
		}

		chromosome, start, end := row.Field(2), row.Field(3), row.Field(4)
		if chromosome != "" && start != "" && start != "0" && end != "" && end != "0" {
			region := fmt.Sprintf("%s:%s-%s", chromosome, start, end)
			result.URL = fmt.Sprintf("/%s/contigview?l=%s", sp.Path, url.QueryEscape(region))
			result.Description = fmt.Sprintf("%s on chromosome %s", description, region)
		} else {
			result.URL = fmt.Sprintf("/%s/contigview?qtl=%s", sp.Path, url.QueryEscape(trait))
		}

		results = append(results, result)
	}
	return results
}
