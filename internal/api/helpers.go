package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"socialnet/internal/domain"
	"socialnet/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// pathID parses a positive numeric path segment.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// viewer returns the session of an authenticated request. Handlers behind
// session.RequireAuth can rely on it being set.
func viewer(r *http.Request) *domain.Session {
	sess, _ := session.FromContext(r.Context())
	return sess
}

func serverError(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
