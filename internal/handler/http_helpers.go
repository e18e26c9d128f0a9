package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "doc-text-reader/pkg/errors"
)

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeAppError writes err with the status its AppError carries. Errors that
// are not AppErrors become a generic 500 so internals are not leaked.
func writeAppError(w http.ResponseWriter, err error) {
	status := pkgerrors.GetStatusCode(err)
	var appErr *pkgerrors.AppError
	if !errors.As(err, &appErr) {
		writeError(w, status, "Internal server error")
		return
	}
	body := map[string]string{"error": appErr.Message}
	if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	writeJSON(w, status, body)
}
