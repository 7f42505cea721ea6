// Package domain searches InterPro protein domain entries by accession or
// name.
package domain

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
	return "domain"
}

func (s *Source) Queries() []core.Query {
	return []core.Query{
		{
			Database: "core",
			Count:    "SELECT COUNT(*) FROM interpro WHERE accession %s",
			Fetch:    "SELECT accession, COALESCE(name, ''), COALESCE(description, '') FROM interpro WHERE accession %s ORDER BY accession LIMIT ?",
		},
		{
			Database: "core",
			Count:    "SELECT COUNT(*) FROM interpro WHERE name %s",
			Fetch:    "SELECT accession, COALESCE(name, ''), COALESCE(description, '') FROM interpro WHERE name %s ORDER BY accession LIMIT ?",
		},
	}
}

func (s *Source) Normalize(rows []core.Row, sp core.SpeciesRef) []core.Result {
	results := make([]core.Result, 0, len(rows))
	for _, row := range rows {
		accession := row.Field(0)
		if accession == "" {
			continue
		}

		description := row.Field(2)
		if description == "" {
			description = row.Field(1)
		}
		if description == "" {
			description = "protein domain"
		}

		results = append(results, core.Result{
			Index:       s.Name(),
			Subtype:     "Interpro Domain",
			ID:          accession,
			URL:         fmt.Sprintf("/%s/domainview?domainentry=%s", sp.Path, url.QueryEscape(accession)),
			Description: description,
			Species:     sp.Name,
		})
	}
	return results
}
