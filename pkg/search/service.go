package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/genomehub/unisearch/pkg/config"
	"github.com/genomehub/unisearch/pkg/core"
	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/dispatch"
	"github.com/genomehub/unisearch/pkg/log"
	"github.com/genomehub/unisearch/pkg/species"
)

// AllIndexes is the pseudo index name that fans a search out across every
// source enabled for the species.
const AllIndexes = "all"

// Request describes one search operation.
type Request struct {
	// Species is the canonical species name, e.g. "homo_sapiens".
	Species string

	// Index names the source to search, or AllIndexes for a fan-out.
	// An empty index is treated as AllIndexes.
	Index string

	// Query is the raw search text. A blank query performs no search and
	// yields an empty result set.
	Query string

	// Budget overrides the configured fetch budget when positive. Under a
	// fan-out each source receives its own budget of this size.
	Budget int
}

// Service executes searches against the configured species databases. It is
// safe for concurrent use; all per-request state lives in the result set.
type Service struct {
	catalog      *core.Catalog
	provider     *db.Provider
	registry     *species.Registry
	dispatcher   *dispatch.Dispatcher
	sourceBudget int
	allBudget    int
	parallelism  int
	logger       *log.Logger
}

// NewService wires a search service from the configuration, the source
// catalog and the database provider.
func NewService(cfg *config.Config, catalog *core.Catalog, provider *db.Provider) (*Service, error) {
	registry, err := cfg.SpeciesRegistry()
	if err != nil {
		return nil, fmt.Errorf("building species registry: %w", err)
	}

	return &Service{
		catalog:      catalog,
		provider:     provider,
		registry:     registry,
		dispatcher:   dispatch.New(cfg.Search.QueryTimeout.Duration),
		sourceBudget: cfg.Search.SourceBudget,
		allBudget:    cfg.Search.AllBudget,
		parallelism:  cfg.Search.Parallelism,
		logger:       log.ForService("search"),
	}, nil
}

// Catalog returns the source catalog the service searches with.
func (s *Service) Catalog() *core.Catalog {
	return s.catalog
}

// Registry returns the configured species registry.
func (s *Service) Registry() *species.Registry {
	return s.registry
}

// Progress is invoked as each source completes during a streamed search.
// Invocations are serialized; under a fan-out they arrive in completion
// order, not catalog order.
type Progress func(source string, hits *core.SourceHits)

// Search runs one search request.
//
// A blank query returns an empty result set without touching any source.
// A named index runs that source alone with the standalone budget; the
// pseudo index "all" runs every source enabled for the species, each with
// its own smaller budget, merged in catalog order. Unknown species and
// unknown index names are the only errors; everything behind a source
// degrades to an empty entry for that source.
func (s *Service) Search(ctx context.Context, req Request) (*core.ResultSet, error) {
	return s.run(ctx, req, nil)
}

// SearchStream behaves like Search but reports each source's hits through
// progress as soon as they are ready. The returned set is the same merged,
// catalog-ordered result.
func (s *Service) SearchStream(ctx context.Context, req Request, progress Progress) (*core.ResultSet, error) {
	return s.run(ctx, req, progress)
}

func (s *Service) run(ctx context.Context, req Request, progress Progress) (*core.ResultSet, error) {
	sp, err := s.registry.Get(req.Species)
	if err != nil {
		return nil, err
	}

	set := core.NewResultSet(req.Query, sp.Name)
	terms := core.Tokenize(req.Query)
	if len(terms) == 0 {
		return set, nil
	}

	index := strings.ToLower(strings.TrimSpace(req.Index))
	if index == "" || index == AllIndexes {
		s.searchAll(ctx, sp, terms, req.Budget, set, progress)
		return set, nil
	}

	src, ok := s.catalog.Lookup(index)
	if !ok {
		return nil, &core.UnknownSourceError{Name: req.Index}
	}

	budget := req.Budget
	if budget <= 0 {
		budget = s.sourceBudget
	}
	hits := s.runSource(ctx, src, sp, terms, budget)
	if progress != nil {
		progress(src.Name(), hits)
	}
	set.Add(src.Name(), hits)
	return set, nil
}

// searchAll fans out across the enabled sources with a bounded worker pool.
// Budgets are per source, so handlers share no state and the merge is a
// straight reassembly in catalog order.
func (s *Service) searchAll(ctx context.Context, sp *species.Species, terms []core.Term, budgetOverride int, set *core.ResultSet, progress Progress) {
	sources := s.enabledSources(sp)

	budget := budgetOverride
	if budget <= 0 {
		budget = s.allBudget
	}

	hits := make([]*core.SourceHits, len(sources))
	sem := make(chan struct{}, s.parallelism)
	var progressMu sync.Mutex
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			hits[i] = s.runSource(ctx, src, sp, terms, budget)
			if progress != nil {
				progressMu.Lock()
				progress(src.Name(), hits[i])
				progressMu.Unlock()
			}
		}()
	}
	wg.Wait()

	for i, src := range sources {
		set.Add(src.Name(), hits[i])
	}
}

// enabledSources filters the catalog down to the species' search index list,
// preserving catalog order. A species without an explicit list gets every
// source.
func (s *Service) enabledSources(sp *species.Species) []core.Source {
	if len(sp.SearchIndexes) == 0 {
		return s.catalog.Sources()
	}

	enabled := make(map[string]bool, len(sp.SearchIndexes))
	for _, name := range sp.SearchIndexes {
		enabled[strings.ToLower(strings.TrimSpace(name))] = true
	}

	var out []core.Source
	for _, src := range s.catalog.Sources() {
		if enabled[src.Name()] {
			out = append(out, src)
		}
	}
	return out
}

// runSource executes one source end to end: dispatch, optional enrichment,
// normalization. It never fails; a panicking source is logged and recorded
// as an empty entry.
func (s *Service) runSource(ctx context.Context, src core.Source, sp *species.Species, terms []core.Term, budget int) (hits *core.SourceHits) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("source %s panicked: %v", src.Name(), r)
			hits = &core.SourceHits{}
		}
	}()

	conns := s.provider.Species(sp)
	rows, matched := s.dispatcher.Run(ctx, src.Name(), conns, src.Queries(), terms, dispatch.NewBudget(budget))

	if enricher, ok := src.(core.Enricher); ok && len(rows) > 0 {
		rows = enricher.Enrich(ctx, conns, rows)
	}

	return &core.SourceHits{
		Results: src.Normalize(rows, sp.Ref()),
		Matched: matched,
	}
}
