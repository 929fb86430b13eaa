package vent

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dasgddadqw231/shindy-backend/internal/service/ai"
	"github.com/dasgddadqw231/shindy-backend/pkg/utils"
)

// Handler serves the quick-comfort "vent" feature: a stateless one-shot
// that shares no state with the coach session.
type Handler struct {
	aiSvc *ai.Service
}

// New creates the vent handler. aiSvc may be nil when AI is disabled.
func New(aiSvc *ai.Service) *Handler {
	return &Handler{aiSvc: aiSvc}
}

// RegisterRoutes registers the vent route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/vent", h.handleVent)
}

func (h *Handler) handleVent(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mood string `json:"mood"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mood := strings.TrimSpace(payload.Mood)
	if mood == "" {
		utils.RespondError(w, http.StatusBadRequest, "mood is required")
		return
	}

	text := ai.ComfortFallback
	if h.aiSvc != nil {
		generated, err := h.aiSvc.QuickComfort(r.Context(), mood)
		if err != nil {
			log.Printf("[vent] comfort call failed: %v", err)
		} else {
			text = generated
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"text": text})
}
