package api

import "net/http"

// handleListLogs implements GET /api/logs: a non-destructive snapshot of
// the bounded event log in insertion order, at most its capacity (50).
func (d *Dependencies) handleListLogs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, d.Log.List())
}
