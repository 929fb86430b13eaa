package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dasgddadqw231/shindy-backend/internal/model/persona"
	"github.com/dasgddadqw231/shindy-backend/internal/model/resource"
	"github.com/dasgddadqw231/shindy-backend/internal/service/account"
	"github.com/dasgddadqw231/shindy-backend/internal/service/entitlement"
	"github.com/dasgddadqw231/shindy-backend/pkg/utils"
)

// Handler serves the coach catalog.
type Handler struct {
	personas persona.Store
	accounts *account.Service
}

// New creates the persona handler.
func New(personas persona.Store, accounts *account.Service) *Handler {
	return &Handler{personas: personas, accounts: accounts}
}

// RegisterRoutes registers persona routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
}

type listedPersona struct {
	persona.Persona
	LockState *entitlement.LockState `json:"lockState,omitempty"`
}

// handleListPersonas lists the coaches, annotated with the current lock
// state once onboarding has created the ledger.
func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	ledger, _ := h.accounts.Ledger()

	items := h.personas.List()
	out := make([]listedPersona, 0, len(items))
	for _, item := range items {
		entry := listedPersona{Persona: item}
		if ledger != nil {
			state := ledger.EvaluateLock(resource.FromPersona(item.ID, item.Name, item.GatedBySubscription))
			entry.LockState = &state
		}
		out = append(out, entry)
	}

	utils.RespondJSON(w, http.StatusOK, out)
}
