// Package family searches protein family clusters in the comparative
// genomics database, by stable ID or by words from the family description.
package family

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
	return "family"
}

func (s *Source) Queries() []core.Query {
	return []core.Query{
		{
			Database: "compara",
			Count:    "SELECT COUNT(*) FROM family WHERE stable_id %s",
			Fetch:    "SELECT stable_id, COALESCE(description, ''), CAST(member_count AS TEXT) FROM family WHERE stable_id %s ORDER BY stable_id LIMIT ?",
		},
		{
			Database: "compara",
			FullText: true,
			Count:    "SELECT COUNT(*) FROM family_fts WHERE family_fts MATCH ?",
			Fetch: "SELECT family_fts.stable_id, COALESCE(family.description, ''), CAST(family.member_count AS TEXT) " +
				"FROM family_fts JOIN family ON family.stable_id = family_fts.stable_id " +
				"WHERE family_fts MATCH ? ORDER BY bm25(family_fts) LIMIT ?",
		},
	}
}

func (s *Source) Normalize(rows []core.Row, sp core.SpeciesRef) []core.Result {
	results := make([]core.Result, 0, len(rows))
	for _, row := range rows {
		stableID := row.Field(0)
		if stableID == "" {
			continue
		}

		description := row.Field(1)
		if description == "" {
			description = "protein family"
		}
		if members := row.Field(2); members != "" && members != "0" {
			description = fmt.Sprintf("%s (%s members)", description, members)
		}

		results = append(results, core.Result{
			Index:       s.Name(),
			Subtype:     "Family",
			ID:          stableID,
			URL:         fmt.Sprintf("/%s/familyview?family=%s", sp.Path, url.QueryEscape(stableID)),
			Description: description,
			Species:     sp.Name,
		})
	}
	return results
}
