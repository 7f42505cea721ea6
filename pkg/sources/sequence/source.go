// Package sequence searches assembled sequence regions (clones, contigs,
// scaffolds, chromosomes) by name. Hits on lower-level regions are resolved
// to a chromosome coordinate range through the assembly mapping when one
// exists.
package sequence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/genomehub/unisearch/pkg/core"
	"github.com/genomehub/unisearch/pkg/log"
)

// subtypeCaser renders coordinate system names ("clone", "supercontig") as
// result subtypes.
var subtypeCaser = cases.Title(language.English)

type Source struct{}

func New() *Source {
	return &Source{}
}

func (s *Source) Name() string {
	return "sequence"
}

// Queries returns the region lookup. Raw row shape before enrichment:
// (name, coord_system, seq_region_id); enrichment appends (chromosome,
// start, end) when the region maps onto an assembly.
func (s *Source) Queries() []core.Query {
	return []core.Query{
		{
			Database: "core",
			Count:    "SELECT COUNT(*) FROM seq_region WHERE name %s",
			Fetch:    "SELECT name, coord_system, CAST(seq_region_id AS TEXT) FROM seq_region WHERE name %s ORDER BY name LIMIT ?",
		},
	}
}

// Enrich resolves each fetched region to its chromosome placement. Rows
// without a mapping, and all rows when the core database cannot be reached,
// pass through unchanged.
func (s *Source) Enrich(ctx context.Context, conns core.ConnectionProvider, rows []core.Row) []core.Row {
	handle, err := conns.Connection("core")
	if err != nil {
		return rows
	}

	logger := log.ForSource(s.Name())
	out := make([]core.Row, len(rows))
	for i, row := range rows {
		out[i] = row
		regionID := row.Field(2)
		if regionID == "" {
			continue
		}

		var chromosome, start, end string
		err := handle.QueryRowContext(ctx, `
			SELECT asm_name, CAST(asm_start AS TEXT), CAST(asm_end AS TEXT)
			FROM assembly WHERE cmp_seq_region_id = ?
			ORDER BY asm_start LIMIT 1
		`, regionID).Scan(&chromosome, &start, &end)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			logger.Warnf("resolving assembly placement for region %s: %v", row.Field(0), err)
			continue
		}

		enriched := make(core.Row, 0, len(row)+3)
		enriched = append(enriched, row...)
		enriched = append(enriched, chromosome, start, end)
		out[i] = enriched
	}
	return out
}

func (s *Source) Normalize(rows []core.Row, sp core.SpeciesRef) []core.Result {
	results := make([]core.Result, 0, len(rows))
	for _, row := range rows {
		name := row.Field(0)
		if name == "" {
			continue
		}

		subtype := subtypeCaser.String(row.Field(1))
		if subtype == "" {
			subtype = "Sequence"
		}

		result := core.Result{
			Index:   s.Name(),
			Subtype: subtype,
			ID:      name,
			Species: sp.Name,
		}

		chromosome, start, end := row.Field(3), row.Field(4), row.Field(5)
		if chromosome != "" && start != "" && end != "" {
			region := fmt.Sprintf("%s:%s-%s", chromosome, start, end)
			result.URL = fmt.Sprintf("/%s/contigview?l=%s", sp.Path, url.QueryEscape(region))
			result.Description = fmt.Sprintf("%s %s maps to chromosome %s", subtype, name, region)
			result.Extra = &core.ExtraLink{
				Label: "chromosome",
				Title: fmt.Sprintf("View chromosome %s", chromosome),
				URL:   fmt.Sprintf("/%s/mapview?chr=%s", sp.Path, url.QueryEscape(chromosome)),
			}
		} else {
			result.URL = fmt.Sprintf("/%s/contigview?region=%s", sp.Path, url.QueryEscape(name))
			result.Description = fmt.Sprintf("%s %s", subtype, name)
		}

		results = append(results, result)
	}
	return results
}
