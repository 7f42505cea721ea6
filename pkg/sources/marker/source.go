// Package marker searches genetic markers by name or synonym.
package marker

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
	return "marker"
}

func (s *Source) Queries() []core.Query {
	return []core.Query{
		{
			Database: "core",
			Count:    "SELECT COUNT(*) FROM marker WHERE name %s",
			Fetch:    "SELECT name, COALESCE(type, '') FROM marker WHERE name %s ORDER BY name LIMIT ?",
		},
		{
			Database: "core",
			Count:    "SELECT COUNT(DISTINCT m.marker_id) FROM marker m JOIN marker_synonym ms ON ms.marker_id = m.marker_id WHERE ms.name %s",
			Fetch: "SELECT DISTINCT m.name, COALESCE(m.type, '') FROM marker m " +
				"JOIN marker_synonym ms ON ms.marker_id = m.marker_id WHERE ms.name %s ORDER BY m.name LIMIT ?",
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

		description := "genetic marker"
		if markerType := row.Field(1); markerType != "" {
			description = fmt.Sprintf("%s marker", markerType)
		}

		results = append(results, core.Result{
			Index:       s.Name(),
			Subtype:     "Marker",
			ID:          name,
			URL:         fmt.Sprintf("/%s/markerview?marker=%s", sp.Path, url.QueryEscape(name)),
			Description: description,
			Species:     sp.Name,
		})
	}
	return results
}
