package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/costscope/costscope-api/internal/platform/logger"
	"github.com/costscope/costscope-api/internal/redact"
)

// ErrorResponse is the standard JSON body for error replies.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and payload.
// Encoding failures are logged and surfaced as a plain 500 since headers
// have already been written.
func RespondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("failed to encode JSON response",
			slog.String("error", redact.Error(err)),
			slog.Int("status", status))
	}
}

// RespondWithError writes a JSON error response with the given status code
// and message, including the request trace ID when one is present.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := ErrorResponse{
		Error:   message,
		TraceID: GetTraceID(r.Context()),
	}
	RespondWithJSON(w, status, resp)
}

// RespondWithErrorAndLog writes a JSON error response and logs the underlying
// error with full detail. The client sees only the safe message; the log
// carries the redacted cause and trace ID for correlation.
func RespondWithErrorAndLog(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, nil)

	attrs := []any{
		slog.Int("status", status),
		slog.String("message", message),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		attrs = append(attrs, slog.String("trace_id", traceID))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", redact.Error(err)))
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", attrs...)
	} else {
		log.Warn("request rejected", attrs...)
	}

	RespondWithError(w, r, status, message)
}
