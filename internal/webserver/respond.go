package webserver

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// errorBody is the JSON envelope for every failed request.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	ResetIn int    `json:"resetIn,omitempty"` // seconds, rate-limit responses only
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeRateLimited(w http.ResponseWriter, resetIn int) {
	if resetIn < 1 {
		resetIn = 1
	}
	writeJSON(w, http.StatusTooManyRequests, errorBody{
		Error:   "rate limit exceeded",
		ResetIn: resetIn,
	})
}

// requireMethod rejects any other method with a JSON 405.
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// clientIP resolves the logical client key for rate limiting: first
// X-Forwarded-For hop when present, else the connection's remote host.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
