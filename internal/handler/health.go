package handler

import "net/http"

// HandleHealth is the liveness probe. It needs no token and touches no store.
//
// HTTP: GET /health → 200 {"status": "ok"}
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
