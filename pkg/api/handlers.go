package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/genomehub/unisearch/pkg/core"
	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/search"
	"github.com/genomehub/unisearch/pkg/version"
)

// parseSearchRequest reads the search parameters shared by the JSON and
// stream endpoints: species (required), q (required), index (defaults to
// "all") and limit (optional fetch budget override).
func parseSearchRequest(r *http.Request) (search.Request, *ErrorResponse) {
	query := r.URL.Query()

	req := search.Request{
		Species: query.Get("species"),
		Index:   query.Get("index"),
		Query:   query.Get("q"),
	}
	if req.Species == "" {
		return req, &ErrorResponse{Error: "Missing species parameter", Message: "Query parameter 'species' is required"}
	}
	if req.Query == "" {
		return req, &ErrorResponse{Error: "Missing query parameter", Message: "Query parameter 'q' is required"}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return req, &ErrorResponse{Error: "Invalid limit parameter", Message: "Query parameter 'limit' must be a positive integer"}
		}
		req.Budget = parsed
	}
	return req, nil
}

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	req, badReq := parseSearchRequest(r)
	if badReq != nil {
		s.writeJSON(w, http.StatusBadRequest, badReq)
		return
	}

	service, _ := s.backends()
	set, err := service.Search(r.Context(), req)
	if err != nil {
		s.writeSearchError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, searchResponse(req, set))
}

func (s *Server) writeSearchError(w http.ResponseWriter, err error) {
	var unknownSpecies *core.UnknownSpeciesError
	var unknownSource *core.UnknownSourceError
	switch {
	case errors.As(err, &unknownSpecies):
		s.writeError(w, http.StatusNotFound, "Unknown species", err.Error())
	case errors.As(err, &unknownSource):
		s.writeError(w, http.StatusBadRequest, "Unsupported search type", err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
	}
}

func searchResponse(req search.Request, set *core.ResultSet) SearchResponse {
	index := req.Index
	if index == "" {
		index = search.AllIndexes
	}

	sources := set.Sources()
	results := make(map[string]*core.SourceHits, len(sources))
	for _, name := range sources {
		hits, _ := set.Hits(name)
		results[name] = hits
	}

	return SearchResponse{
		Query:        set.Query,
		Species:      set.Species,
		Index:        index,
		Sources:      sources,
		Results:      results,
		TotalMatched: set.TotalMatched(),
		TotalFetched: set.TotalFetched(),
	}
}

func (s *Server) HandleListSpecies(w http.ResponseWriter, r *http.Request) {
	service, _ := s.backends()
	all := service.Registry().All()

	infos := make([]SpeciesInfo, 0, len(all))
	for _, sp := range all {
		indexes := sp.SearchIndexes
		if len(indexes) == 0 {
			indexes = service.Catalog().Names()
		}
		infos = append(infos, SpeciesInfo{
			Name:          sp.Name,
			Path:          sp.Path,
			DisplayName:   sp.DisplayName,
			SearchIndexes: indexes,
		})
	}

	s.writeJSON(w, http.StatusOK, ListSpeciesResponse{
		Species: infos,
		Count:   len(infos),
	})
}

func (s *Server) HandleListSources(w http.ResponseWriter, r *http.Request) {
	service, _ := s.backends()
	catalog := service.Catalog()

	infos := make([]SourceInfo, 0, catalog.Len())
	for _, src := range catalog.Sources() {
		var databases []string
		seen := make(map[string]bool)
		for _, q := range src.Queries() {
			if !seen[q.Database] {
				seen[q.Database] = true
				databases = append(databases, q.Database)
			}
		}
		infos = append(infos, SourceInfo{
			Name:      src.Name(),
			Databases: databases,
		})
	}

	s.writeJSON(w, http.StatusOK, ListSourcesResponse{
		Sources: infos,
		Count:   len(infos),
	})
}

func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	_, mon := s.backends()
	if mon == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Monitor disabled", "Availability probing is not running")
		return
	}

	databases := mon.Snapshot()
	available := 0
	for _, status := range databases {
		if status.Available {
			available++
		}
	}

	status := "ok"
	switch {
	case len(databases) == 0:
		status = "unknown"
	case available < len(databases):
		status = "degraded"
	}

	s.writeJSON(w, http.StatusOK, StatusResponse{
		Status:    status,
		CheckedAt: mon.LastRun(),
		Available: available,
		Total:     len(databases),
		Databases: databases,
	})
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	service, _ := s.backends()
	stats := StatsResponse{Species: make(map[string]map[string]DatabaseStats)}

	for _, sp := range service.Registry().All() {
		logicals := sp.Databases()
		if len(logicals) == 0 {
			logicals = db.Logicals()
		}

		for _, logical := range logicals {
			database, err := s.provider.Get(sp, logical)
			if err != nil {
				continue
			}
			counts, err := database.TableCounts()
			if err != nil {
				s.logger.Warnf("counting %s/%s: %v", sp.Name, logical, err)
				continue
			}

			total := 0
			for _, n := range counts {
				total += n
			}
			if stats.Species[sp.Name] == nil {
				stats.Species[sp.Name] = make(map[string]DatabaseStats)
			}
			stats.Species[sp.Name][logical] = DatabaseStats{
				Tables: counts,
				Total:  total,
			}
		}
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, health)
}
