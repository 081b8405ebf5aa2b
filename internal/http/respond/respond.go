package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorBody is the wire shape for every failed request.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// JSON writes a success payload as-is.
func JSON(w http.ResponseWriter, status int, payload any) {
	write(w, status, payload)
}

// Error writes a failure with a detail message.
func Error(w http.ResponseWriter, status int, detail string) {
	write(w, status, ErrorBody{Detail: detail})
}

func write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}
