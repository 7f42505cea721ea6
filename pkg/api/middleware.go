package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/genomehub/unisearch/pkg/log"
)

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware tags every request with an ID for log correlation,
// honoring one supplied by the client.
func RequestIDMiddleware(next http.Handler) http.Handler {
	logger := log.ForService("api")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debugf("%s %s %s (%v)", id, r.Method, r.URL.Path, time.Since(start))
	})
}
