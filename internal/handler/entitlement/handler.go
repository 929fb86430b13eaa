package entitlement

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dasgddadqw231/shindy-backend/internal/model/persona"
	"github.com/dasgddadqw231/shindy-backend/internal/model/resource"
	"github.com/dasgddadqw231/shindy-backend/internal/service/account"
	"github.com/dasgddadqw231/shindy-backend/internal/service/entitlement"
	"github.com/dasgddadqw231/shindy-backend/pkg/utils"
)

// Handler exposes the coin/subscription ledger to the presentation layer.
// The ledger only decides and mutates; confirmation dialogs and top-up
// prompts are the client's concern.
type Handler struct {
	accounts  *account.Service
	resources resource.Store
	personas  persona.Store
}

// New creates the entitlement handler.
func New(accounts *account.Service, resources resource.Store, personas persona.Store) *Handler {
	return &Handler{accounts: accounts, resources: resources, personas: personas}
}

// RegisterRoutes registers ledger routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/lock/{resourceID}", h.handleEvaluateLock)
	r.Post("/coins/purchase", h.handlePurchaseCoins)
	r.Post("/subscribe", h.handleSubscribe)
	r.Post("/unlock", h.handleUnlock)
	r.Get("/shop/packages", h.handleListPackages)
}

// CoinPackage is one fixed top-up offer from the shop.
type CoinPackage struct {
	Amount int    `json:"amount"`
	Price  string `json:"price"`
	Bonus  string `json:"bonus,omitempty"`
}

// Packages mirrors the product's coin shop reference data.
func Packages() []CoinPackage {
	return []CoinPackage{
		{Amount: 10, Price: "5,000원"},
		{Amount: 30, Price: "14,000원", Bonus: "+10%"},
		{Amount: 50, Price: "22,000원", Bonus: "+15%"},
		{Amount: 100, Price: "40,000원", Bonus: "BEST"},
	}
}

func (h *Handler) handleListPackages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, Packages())
}

func (h *Handler) handleEvaluateLock(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.accounts.Ledger()
	if err != nil {
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}

	res, ok := h.resolveResource(chi.URLParam(r, "resourceID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "resource not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, ledger.EvaluateLock(res))
}

func (h *Handler) handlePurchaseCoins(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ledger, err := h.accounts.Ledger()
	if err != nil {
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}

	state, err := ledger.PurchaseCoins(payload.Amount)
	if errors.Is(err, entitlement.ErrInvalidAmount) {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, state)
}

func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.accounts.Ledger()
	if err != nil {
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, ledger.Subscribe())
}

func (h *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ResourceID string `json:"resourceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.ResourceID == "" {
		utils.RespondError(w, http.StatusBadRequest, "resourceId is required")
		return
	}

	ledger, err := h.accounts.Ledger()
	if err != nil {
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}

	res, ok := h.resolveResource(payload.ResourceID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "resource not found")
		return
	}

	state, err := ledger.Unlock(res)
	var insufficient *entitlement.InsufficientCoinsError
	switch {
	case errors.As(err, &insufficient):
		// The client owns the top-up path; report the gap and stop.
		utils.RespondJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error":     err.Error(),
			"shortfall": insufficient.Shortfall,
		})
		return
	case errors.Is(err, entitlement.ErrSubscriptionRequired):
		utils.RespondError(w, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, entitlement.ErrAlreadyUnlocked):
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, state)
}

// resolveResource looks up an unlockable by ID across the catalog and the
// coach list.
func (h *Handler) resolveResource(id string) (resource.Resource, bool) {
	if res, ok := h.resources.FindByID(id); ok {
		return res, true
	}
	if p, ok := h.personas.FindByID(id); ok {
		return resource.FromPersona(p.ID, p.Name, p.GatedBySubscription), true
	}
	return resource.Resource{}, false
}
