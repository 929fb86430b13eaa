package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dasgddadqw231/shindy-backend/internal/model/resource"
	"github.com/dasgddadqw231/shindy-backend/internal/service/account"
	"github.com/dasgddadqw231/shindy-backend/internal/service/entitlement"
	"github.com/dasgddadqw231/shindy-backend/pkg/utils"
)

// Handler serves the unlockable catalogs (diagnoses, training, content).
type Handler struct {
	resources resource.Store
	accounts  *account.Service
}

// New creates the catalog handler.
func New(resources resource.Store, accounts *account.Service) *Handler {
	return &Handler{resources: resources, accounts: accounts}
}

// RegisterRoutes registers catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/catalog", h.handleListAll)
	r.Get("/catalog/{kind}", h.handleListByKind)
}

type listedResource struct {
	resource.Resource
	LockState *entitlement.LockState `json:"lockState,omitempty"`
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.annotate(h.resources.List()))
}

func (h *Handler) handleListByKind(w http.ResponseWriter, r *http.Request) {
	kind := resource.Kind(chi.URLParam(r, "kind"))
	switch kind {
	case resource.KindDiagnosis, resource.KindTraining, resource.KindContent:
	default:
		utils.RespondError(w, http.StatusNotFound, "unknown catalog kind")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.annotate(h.resources.ListByKind(kind)))
}

func (h *Handler) annotate(items []resource.Resource) []listedResource {
	ledger, _ := h.accounts.Ledger()

	out := make([]listedResource, 0, len(items))
	for _, item := range items {
		entry := listedResource{Resource: item}
		if ledger != nil {
			state := ledger.EvaluateLock(item)
			entry.LockState = &state
		}
		out = append(out, entry)
	}
	return out
}
