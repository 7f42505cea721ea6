package api

import (
	"net/http"
)

// RegisterRoutes attaches the JSON endpoints to mux. The WebSocket stream is
// mounted separately by Handler so it bypasses response compression.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/species", s.HandleListSpecies)
	mux.HandleFunc("GET /api/sources", s.HandleListSources)
	mux.HandleFunc("GET /api/status", s.HandleStatus)
	mux.HandleFunc("GET /api/stats", s.HandleStats)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
