// Package handler exposes the reader and social panel over HTTP.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"novel-reader/internal/domain"
	apperrors "novel-reader/pkg/errors"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError maps err onto the error taxonomy and writes it. Server-side
// failures are logged; client mistakes are not.
func writeAppError(w http.ResponseWriter, logger domain.Logger, err error) {
	status, body := appErrorBody(logger, err)
	writeJSON(w, status, body)
}

func appErrorBody(logger domain.Logger, err error) (int, map[string]interface{}) {
	appErr := apperrors.FromDomain(err)
	status := apperrors.GetStatusCode(appErr)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", err, "status", status)
	}

	body := map[string]interface{}{"error": http.StatusText(status)}
	if ae, ok := appErr.(*apperrors.AppError); ok {
		body["error"] = ae.Message
		body["type"] = string(ae.Type)
		if ae.Details != "" {
			body["details"] = ae.Details
		}
	}
	return status, body
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid request body", err.Error())
	}
	return nil
}

// queryBool reads a boolean query parameter, defaulting to false.
func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

// isMobile reads ?mobile=true or ?width=<px> from the request.
func isMobile(r *http.Request, narrow func(width int) bool) bool {
	if w, err := strconv.Atoi(r.URL.Query().Get("width")); err == nil {
		return narrow(w)
	}
	return queryBool(r, "mobile")
}
