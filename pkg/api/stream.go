package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/genomehub/unisearch/pkg/core"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// the JSON endpoints already allow any origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamMessage is the envelope pushed over the search stream. Type is
// "hits" while sources complete, then a single "summary" closes the search.
type StreamMessage struct {
	Type    string           `json:"type"`
	Source  string           `json:"source,omitempty"`
	Hits    *core.SourceHits `json:"hits,omitempty"`
	Summary *StreamSummary   `json:"summary,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type StreamSummary struct {
	Query        string   `json:"query"`
	Species      string   `json:"species"`
	Sources      []string `json:"sources"`
	TotalMatched int      `json:"total_matched"`
	TotalFetched int      `json:"total_fetched"`
}

// HandleSearchStream runs a search and pushes one message per completed
// source, then a summary, then closes. Under a fan-out the per-source
// messages arrive in completion order; the summary carries the catalog
// order. Parameter errors are rejected before the upgrade with plain HTTP
// status codes; lookup failures surface as an error message on the socket.
func (s *Server) HandleSearchStream(w http.ResponseWriter, r *http.Request) {
	req, badReq := parseSearchRequest(r)
	if badReq != nil {
		s.writeJSON(w, http.StatusBadRequest, badReq)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written its own error response
		s.logger.Debugf("websocket upgrade failed: %v", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Debugf("closing websocket: %v", err)
		}
	}()

	send := func(msg StreamMessage) bool {
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debugf("writing stream message: %v", err)
			return false
		}
		return true
	}

	service, _ := s.backends()
	set, err := service.SearchStream(r.Context(), req, func(source string, hits *core.SourceHits) {
		send(StreamMessage{Type: "hits", Source: source, Hits: hits})
	})
	if err != nil {
		send(StreamMessage{Type: "error", Error: err.Error()})
		return
	}

	send(StreamMessage{Type: "summary", Summary: &StreamSummary{
		Query:        set.Query,
		Species:      set.Species,
		Sources:      set.Sources(),
		TotalMatched: set.TotalMatched(),
		TotalFetched: set.TotalFetched(),
	}})

	closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteMessage(websocket.CloseMessage, closing); err != nil {
		s.logger.Debugf("writing close message: %v", err)
	}
}
