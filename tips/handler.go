package tips

import (
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"

	"spinnertip/logger"
	"spinnertip/metrics"
)

type factResponse struct {
	Fact   string `json:"fact"`
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves one random fact per request as {"fact": ..., "status": "success"}.
func Handler(store *Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			metrics.FactRequestsRejected.WithLabelValues("method").Inc()
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		fact := store.Random()
		log.Debug("Random fact served: %s", preview(fact, 50))
		metrics.FactsServedTotal.Inc()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		json.NewEncoder(w).Encode(factResponse{Fact: fact, Status: "success"})
	}
}

// RateLimit rejects requests with 429 once the limiter runs dry. Every open
// overlay polls the fact endpoint, so the limit is shared across clients.
func RateLimit(limiter *rate.Limiter, log *logger.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			metrics.FactRequestsRejected.WithLabelValues("rate_limit").Inc()
			log.Warn("Fact request from %s rate limited", r.RemoteAddr)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(errorResponse{Error: "rate limit exceeded"})
			return
		}
		next(w, r)
	}
}

// preview cuts s to at most n runes, marking the cut with "...".
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
