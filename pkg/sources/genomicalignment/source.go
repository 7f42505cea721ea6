// Package genomicalignment searches DNA and protein alignment features by
// the name of the aligned external sequence.
package genomicalignment

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
	return "genomicalignment"
}

func (s *Source) Queries() []core.Query {
	return []core.Query{
		alignmentQuery("core", "dna_align_feature", "DnaAlignFeature"),
		alignmentQuery("core", "protein_align_feature", "ProteinAlignFeature"),
		alignmentQuery("otherfeatures", "dna_align_feature", "DnaAlignFeature"),
	}
}

// alignmentQuery builds the hit name lookup for one feature table. The kind
// and database travel with each row so Normalize can build featureview
// links without guessing where a row came from.
func alignmentQuery(database, table, kind string) core.Query {
	return core.Query{
		Database: database,
		Count:    fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE hit_name %%s", table),
		Fetch: fmt.Sprintf(
			"SELECT hit_name, COALESCE(analysis, ''), '%s', '%s' FROM %s WHERE hit_name %%s ORDER BY hit_name LIMIT ?",
			kind, database, table),
	}
}

func (s *Source) Normalize(rows []core.Row, sp core.SpeciesRef) []core.Result {
	results := make([]core.Result, 0, len(rows))
	for _, row := range rows {
		hitName := row.Field(0)
		if hitName == "" {
			continue
		}

		kind := row.Field(2)
		if kind == "" {
			kind = "DnaAlignFeature"
		}
		database := row.Field(3)
		if database == "" {
			database = "core"
		}

		description := "genomic sequence alignment"
		if analysis := row.Field(1); analysis != "" {
			description = fmt.Sprintf("%s alignment", analysis)
		}

		results = append(results, core.Result{
			Index:   s.Name(),
			Subtype: kind,
			ID:      hitName,
			URL: fmt.Sprintf("/%s/featureview?id=%s;type=%s;db=%s",
				sp.Path, url.QueryEscape(hitName), kind, database),
			Description: description,
			Species:     sp.Name,
		})
	}
	return results
}
