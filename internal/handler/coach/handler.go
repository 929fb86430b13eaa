package coach

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dasgddadqw231/shindy-backend/internal/model/persona"
	"github.com/dasgddadqw231/shindy-backend/internal/model/resource"
	"github.com/dasgddadqw231/shindy-backend/internal/service/account"
	"github.com/dasgddadqw231/shindy-backend/internal/service/session"
	"github.com/dasgddadqw231/shindy-backend/pkg/utils"
)

// Handler drives the coach conversation. It is the navigation layer of the
// core: entitlement is checked here before the session manager is touched,
// so the manager itself never consults the ledger.
type Handler struct {
	accounts *account.Service
	personas persona.Store
	sessions *session.Manager
}

// New creates the coach handler.
func New(accounts *account.Service, personas persona.Store, sessions *session.Manager) *Handler {
	return &Handler{accounts: accounts, personas: personas, sessions: sessions}
}

// RegisterRoutes registers coach conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/coach/select", h.handleSelect)
	r.Post("/coach/message", h.handleMessage)
	r.Get("/coach/transcript", h.handleTranscript)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PersonaID string `json:"personaId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.PersonaID == "" {
		utils.RespondError(w, http.StatusBadRequest, "personaId is required")
		return
	}

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

	p, ok := h.personas.FindByID(payload.PersonaID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "persona not found")
		return
	}

	lock := ledger.EvaluateLock(resource.FromPersona(p.ID, p.Name, p.GatedBySubscription))
	if lock.Locked {
		utils.RespondJSON(w, http.StatusForbidden, map[string]interface{}{
			"error":     "coach is locked",
			"lockState": lock,
		})
		return
	}

	sess, turns, err := h.sessions.SelectPersona(r.Context(), p, prof)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"session": sess,
		"turns":   turns,
	})
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userTurn, reply, err := h.sessions.SubmitTurn(r.Context(), payload.Text)
	switch {
	case errors.Is(err, session.ErrEmptyInput):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, session.ErrNoActiveSession):
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, session.ErrReplyPending):
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, session.ErrSessionSuperseded):
		utils.RespondError(w, http.StatusGone, err.Error())
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"userTurn": userTurn,
		"reply":    reply,
	})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess, turns, err := h.sessions.Transcript()
	if errors.Is(err, session.ErrNoActiveSession) {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"session": sess,
		"turns":   turns,
	})
}
