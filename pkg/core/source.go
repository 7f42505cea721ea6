package core

import (
	"context"
	"database/sql"
)

// SpeciesRef carries the species fields result building needs: the canonical
// identifier recorded on every result and the URL path segment.
type SpeciesRef struct {
	Name string
	Path string
}

// ConnectionProvider hands out query handles for the logical databases of one
// species. Connections are owned by the provider; callers never open or close
// them. A database that is not deployed returns an error wrapping
// ErrUnavailable, which the dispatcher treats as zero matches.
type ConnectionProvider interface {
	Connection(database string) (*sql.DB, error)
}

// Source is one searchable category: a fixed set of query templates plus the
// mapping from its raw row shape to canonical results.
type Source interface {
	// Name is the index name callers use to select this source.
	Name() string

	// Queries returns the static template pairs in execution order.
	Queries() []Query

	// Normalize maps fetched rows into canonical results. It must be pure
	// and order-preserving: one input row produces at most one result, in
	// input order.
	Normalize(rows []Row, sp SpeciesRef) []Result
}

// Enricher is implemented by sources that need a secondary per-row lookup
// after fetch, before normalization. Enrichment failures leave the affected
// rows as fetched; they never fail the search.
type Enricher interface {
	Enrich(ctx context.Context, conns ConnectionProvider, rows []Row) []Row
}
