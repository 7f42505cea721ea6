package api

import (
	"time"

	"github.com/genomehub/unisearch/pkg/core"
	"github.com/genomehub/unisearch/pkg/monitor"
)

// SearchResponse carries one completed search. Results are keyed by source
// name; Sources preserves the catalog order of the entries.
type SearchResponse struct {
	Query        string                      `json:"query"`
	Species      string                      `json:"species"`
	Index        string                      `json:"index"`
	Sources      []string                    `json:"sources"`
	Results      map[string]*core.SourceHits `json:"results"`
	TotalMatched int                         `json:"total_matched"`
	TotalFetched int                         `json:"total_fetched"`
}

type SpeciesInfo struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	DisplayName   string   `json:"display_name"`
	SearchIndexes []string `json:"search_indexes"`
}

type ListSpeciesResponse struct {
	Species []SpeciesInfo `json:"species"`
	Count   int           `json:"count"`
}

type SourceInfo struct {
	Name      string   `json:"name"`
	Databases []string `json:"databases"`
}

type ListSourcesResponse struct {
	Sources []SourceInfo `json:"sources"`
	Count   int          `json:"count"`
}

type StatusResponse struct {
	Status    string           `json:"status"`
	CheckedAt time.Time        `json:"checked_at"`
	Available int              `json:"available"`
	Total     int              `json:"total"`
	Databases []monitor.Status `json:"databases"`
}

// DatabaseStats reports per-table row counts for one open database.
type DatabaseStats struct {
	Tables map[string]int `json:"tables"`
	Total  int            `json:"total"`
}

type StatsResponse struct {
	Species map[string]map[string]DatabaseStats `json:"species"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
