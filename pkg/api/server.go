// Package api exposes the search service over HTTP: JSON endpoints for
// searching, listing species and sources, database status and row counts,
// plus a WebSocket stream delivering fan-out results progressively.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/klauspost/compress/gzhttp"

	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/log"
	"github.com/genomehub/unisearch/pkg/monitor"
	"github.com/genomehub/unisearch/pkg/search"
)

type Server struct {
	provider *db.Provider
	logger   *log.Logger

	mu      sync.RWMutex
	service *search.Service
	monitor *monitor.Monitor
}

// NewServer builds the API server. The monitor may be nil, in which case the
// status endpoint reports that probing is disabled.
func NewServer(service *search.Service, provider *db.Provider, mon *monitor.Monitor) *Server {
	return &Server{
		provider: provider,
		logger:   log.ForService("api"),
		service:  service,
		monitor:  mon,
	}
}

// Swap replaces the search service and monitor behind a running server, used
// by configuration reloads. Requests already in flight finish against the
// backends they started with.
func (s *Server) Swap(service *search.Service, mon *monitor.Monitor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.service = service
	s.monitor = mon
}

func (s *Server) backends() (*search.Service, *monitor.Monitor) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.service, s.monitor
}

// Handler assembles the routes with the middleware chain: CORS and request
// IDs around everything, response compression around the JSON endpoints.
// The WebSocket stream stays outside the compressor.
func (s *Server) Handler() http.Handler {
	rest := http.NewServeMux()
	s.RegisterRoutes(rest)

	root := http.NewServeMux()
	root.HandleFunc("GET /api/search/stream", s.HandleSearchStream)
	root.Handle("/", gzhttp.GzipHandler(rest))

	return CorsMiddleware(RequestIDMiddleware(root))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}
