package handler

import "net/http"

// Ping answers liveness probes.
func Ping(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "pong", nil)
}
