// Package httputil holds the JSON response helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrorResponse is the body written for every non-2xx response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	UpstreamStatus   int    `json:"upstream_status,omitempty"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse. Descriptions are dropped for 5xx statuses
// so internal details do not leak to callers.
func WriteError(w http.ResponseWriter, status int, resp ErrorResponse) {
	if status >= http.StatusInternalServerError {
		resp.ErrorDescription = ""
	}
	WriteJSON(w, status, resp)
}

// DecodeJSON decodes a single JSON object from r into dst, reading at most limit bytes.
func DecodeJSON(r io.Reader, limit int64, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r, limit))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is required")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
