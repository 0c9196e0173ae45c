package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bioedlabs/controlbench/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// statusFor maps service errors to HTTP statuses: validation problems are
// the caller's fault, everything else is a server/store failure.
func statusFor(err error) int {
	if errors.Is(err, service.ErrValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
