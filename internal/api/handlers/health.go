package handlers

import (
	"net/http"
)

// Health is a liveness check. It reports only process health, not the
// reachability of the maps or model providers.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
