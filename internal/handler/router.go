package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dasgddadqw231/shindy-backend/internal/handler/catalog"
	"github.com/dasgddadqw231/shindy-backend/internal/handler/coach"
	entitlementHandler "github.com/dasgddadqw231/shindy-backend/internal/handler/entitlement"
	"github.com/dasgddadqw231/shindy-backend/internal/handler/onboarding"
	personaHandler "github.com/dasgddadqw231/shindy-backend/internal/handler/persona"
	"github.com/dasgddadqw231/shindy-backend/internal/handler/vent"
	middlewarePkg "github.com/dasgddadqw231/shindy-backend/internal/middleware"
	personaModel "github.com/dasgddadqw231/shindy-backend/internal/model/persona"
	resourceModel "github.com/dasgddadqw231/shindy-backend/internal/model/resource"
	"github.com/dasgddadqw231/shindy-backend/internal/service/account"
	aiService "github.com/dasgddadqw231/shindy-backend/internal/service/ai"
	"github.com/dasgddadqw231/shindy-backend/internal/service/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(
	accounts *account.Service,
	personas personaModel.Store,
	resources resourceModel.Store,
	sessions *session.Manager,
	aiSvc *aiService.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	onboardingHandler := onboarding.New(accounts)
	personasHandler := personaHandler.New(personas, accounts)
	catalogHandler := catalog.New(resources, accounts)
	ledgerHandler := entitlementHandler.New(accounts, resources, personas)
	coachHandler := coach.New(accounts, personas, sessions)
	coachWS := coach.NewWebSocket(sessions)
	ventHandler := vent.New(aiSvc)

	r.Route("/api", func(api chi.Router) {
		onboardingHandler.RegisterRoutes(api)
		personasHandler.RegisterRoutes(api)
		catalogHandler.RegisterRoutes(api)
		ledgerHandler.RegisterRoutes(api)
		coachHandler.RegisterRoutes(api)
		coachWS.RegisterWebSocketRoutes(api)
		ventHandler.RegisterRoutes(api)
	})

	return r
}
