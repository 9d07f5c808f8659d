package handler

import (
	"encoding/json"
	"net/http"

	"pagebase/internal/workspace"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a workspace error onto its status code. Storage failures
// are logged and reported without detail.
func writeError(w http.ResponseWriter, log *zap.SugaredLogger, r *http.Request, err error) {
	switch workspace.Classify(err) {
	case workspace.ClassNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case workspace.ClassInvalid:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

func writeDeleted(w http.ResponseWriter, found bool) {
	if !found {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
