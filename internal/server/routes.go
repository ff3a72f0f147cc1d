package server

import (
	"net/http"
)

// NewCoordinatorMux routes the parent service: sweep submission plus a health
// probe.
func NewCoordinatorMux(sweepHandler http.HandlerFunc) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sweeps", sweepHandler)
	mux.HandleFunc("/healthz", handleHealth)
	return CORS(mux)
}

// NewWorkerMux routes the child service: shard task intake plus a health
// probe.
func NewWorkerMux(shardHandler http.HandlerFunc) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/shards", shardHandler)
	mux.HandleFunc("/healthz", handleHealth)
	return CORS(mux)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
