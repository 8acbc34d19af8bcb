package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"

	"spinnertip/checker"
	"spinnertip/config"
	"spinnertip/facts"
	"spinnertip/logger"
	"spinnertip/metrics"
	"spinnertip/tips"
	"spinnertip/ui"

	"github.com/maxence-charriere/go-app/v9/pkg/app"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg := logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	store, err := tips.Load(cfg.FactsFile)
	if err != nil {
		lg.Warn("Using built-in facts: %v", err)
	}
	lg.Info("Serving %d facts", store.Len())
	metrics.FactsLoaded.Set(float64(store.Len()))

	// Configure the go-app handler
	handler := &app.Handler{
		Name:        "Spinner Tip",
		Description: "Facts while you wait",
		Version:     "v1",
		RawHeaders: []string{
			`<link href="https://fonts.googleapis.com/css2?family=Roboto:wght@400;500;700&display=swap" rel="stylesheet">`,
			`<link rel="stylesheet" href="https://fonts.googleapis.com/css2?family=Material+Symbols+Rounded:opsz,wght,FILL,GRAD@24,400,0,0" />`,
		},
		LoadingLabel: "",
		Styles: []string{
			"/web/app.css",
		},
	}

	// Register the component on the server side too for correct routing generation
	app.Route("/", &ui.Home{})

	http.Handle("/", handler)

	limiter := rate.NewLimiter(rate.Limit(cfg.FactsRate), cfg.FactsBurst)
	http.HandleFunc(facts.DefaultEndpoint, tips.RateLimit(limiter, lg, tips.Handler(store, lg)))
	http.HandleFunc("/api/status", checker.Handler(cfg.StatusDelay, lg))
	http.HandleFunc("/api/logs", func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
				return
			}
			limit = n
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(lg.GetLogs(limit))
	})

	http.Handle("/metrics", promhttp.Handler())

	lg.Info("Starting Spinner Tip on %s...", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		log.Fatal(err)
	}
}
