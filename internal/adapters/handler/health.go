package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// RegisterHealthRoute exposes GET /health for load balancers.
func RegisterHealthRoute(mux *http.ServeMux, serviceName string) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    "healthy",
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}
