package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/forge-journal/forge-identity/internal/transport/response"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response.Error{Error: true, Message: message})
}

// handleError converts a service error into the error body. Internal
// failures are logged with the original error.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	f := response.FromError(err)
	if f.Internal {
		log.ErrorContext(r.Context(), "internal error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	writeJSON(w, f.Status, f.Body)
}
