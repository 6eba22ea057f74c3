// Package handlers provides the HTTP handlers for the prescription
// safety API: drug catalog lookups, prescription checks, dose
// calculations, lab critical values and health.
package handlers

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rxguard/rxguard-api/interfaces"
	"github.com/rxguard/rxguard-api/logging"
)

// Minimum response size to consider compression (1KB)
const compressionThreshold = 1024

// RespondWithJSON writes a JSON response, gzip-compressed when the
// payload is large and the client accepts it.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err, "payload_type", fmt.Sprintf("%T", payload))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	shouldCompress := len(data) >= compressionThreshold &&
		strings.Contains(strings.ToLower(r.Header.Get("Accept-Encoding")), "gzip")

	if shouldCompress {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(code)
		gz := gzip.NewWriter(w)
		defer gz.Close()
		if _, err := gz.Write(data); err != nil {
			logging.Error("Failed to write compressed response", "error", err)
		}
		return
	}

	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Error("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error payload.
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	jsonResponse, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(jsonResponse); err != nil {
		logging.Error("Failed to write error response", "error", err)
	}
}

// decodeJSONBody decodes a request body into dest with unknown-field
// rejection, answering 400 itself on failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	return true
}

// HealthCheck returns server health derived from the snapshot state.
func HealthCheck(checker interfaces.HealthChecker, store interfaces.SnapshotStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, details, httpStatus := checker.HealthCheck()

		response := map[string]any{
			"status":         status,
			"uptime_seconds": time.Since(store.GetServerStartTime()).Seconds(),
			"data":           details,
		}
		RespondWithJSON(w, r, httpStatus, response)
	}
}
