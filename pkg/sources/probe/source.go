// Package probe searches microarray probe sets in the functional genomics
// database.
package probe

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
	return "probe"
}

func (s *Source) Queries() []core.Query {
	return []core.Query{
		{
			Database: "funcgen",
			Count:    "SELECT COUNT(*) FROM probe_set WHERE name %s",
			Fetch:    "SELECT name, COALESCE(array_name, '') FROM probe_set WHERE name %s ORDER BY name LIMIT ?",
		},
	}
}

func (s *Source) Normalize(rows []core.Row, sp core.SpeciesRef) []core.Result {
	results := make([]core.Result, 0, len(rows))
	for _, row := range rows {
		name := row.Field(0)
		if name == "" {
			continue
		}

		description := "microarray probe set"
		if array := row.Field(1); array != "" {
			description = fmt.Sprintf("probe set on array %s", array)
		}

		results = append(results, core.Result{
			Index:       s.Name(),
			Subtype:     "OligoProbe",
			ID:          name,
			URL:         fmt.Sprintf("/%s/featureview?id=%s;type=OligoProbe", sp.Path, url.QueryEscape(name)),
			Description: description,
			Species:     sp.Name,
		})
	}
	return results
}
