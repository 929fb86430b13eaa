package onboarding

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dasgddadqw231/shindy-backend/internal/model/profile"
	"github.com/dasgddadqw231/shindy-backend/internal/service/account"
	"github.com/dasgddadqw231/shindy-backend/pkg/utils"
)

// Handler completes onboarding and serves the account view.
type Handler struct {
	accounts *account.Service
}

// New creates the onboarding handler.
func New(accounts *account.Service) *Handler {
	return &Handler{accounts: accounts}
}

// RegisterRoutes registers onboarding and account routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/onboarding", h.handleComplete)
	r.Get("/account", h.handleAccount)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	var payload profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ledger, err := h.accounts.CompleteOnboarding(payload)
	switch {
	case errors.Is(err, account.ErrNicknameRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, account.ErrAlreadyOnboarded):
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"profile":     payload,
		"entitlement": ledger.Snapshot(),
	})
}

func (h *Handler) handleAccount(w http.ResponseWriter, r *http.Request) {
	prof, err := h.accounts.Profile()
	if err != nil {
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}
	ledger, err := h.accounts.Ledger()
	if err != nil {
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"profile":     prof,
		"entitlement": ledger.Snapshot(),
	})
}
