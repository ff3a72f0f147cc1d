package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// WriteJSON serializes v as the response body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write response body: %v", err)
	}
}
