package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the {error:true,message} body used by every handler.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}{Error: true, Message: message})
}
