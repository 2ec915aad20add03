// Package ops exposes the watcher's operational HTTP endpoints: a
// health probe and the Prometheus metrics.
package ops

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/hdwatch/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// health is the /healthz response body.
type health struct {
	Status string `json:"status"`
}

// Register installs the ops routes on mux.
func Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

// handleHealth handles GET /healthz requests.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(health{Status: "ok"})
}
