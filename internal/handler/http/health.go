package http

import (
	"net/http"

	"github.com/notesafe/notesafe/internal/utils"
)

// health is an unauthenticated liveness probe.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
