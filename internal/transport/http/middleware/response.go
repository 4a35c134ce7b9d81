package middleware

import (
	"encoding/json"
	"net/http"
)

// envelope mirrors the handler package's uniform response shape. Middleware
// rejections use it too, so clients see one format everywhere.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: msg})
}
