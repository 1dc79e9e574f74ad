package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"hydromon/internal/engine"
	"hydromon/internal/history"
	"hydromon/internal/profile"
	"hydromon/internal/types"
	"hydromon/internal/waterlog"
)

// Server bundles the HTTP surface's dependencies and its chi router.
type Server struct {
	engine   *engine.Engine
	water    *waterlog.Store
	history  *history.Store
	profiles *profile.Store
	logger   types.Logger
	validate *validator.Validate

	router *chi.Mux
}

// NewServer wires a Server over the engine and its stores. The caller mounts
// routes after construction.
func NewServer(eng *engine.Engine, water *waterlog.Store, hist *history.Store, profiles *profile.Store, logger types.Logger) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	return &Server{
		engine:   eng,
		water:    water,
		history:  hist,
		profiles: profiles,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		router:   chi.NewRouter(),
	}, nil
}

// MountRoutes registers the middleware chain and all endpoints.
func (s *Server) MountRoutes() {
	s.router.Use(s.Recoverer)
	s.router.Use(RequestIDMiddleware)
	s.router.Use(s.RequestLogger)

	s.router.Route("/v1", func(r chi.Router) {
		// Trigger entry points.
		r.Post("/water", s.HandleAddWater)
		r.Post("/signals", s.HandleRecordSignals)
		r.Post("/launch", s.HandleAppLaunch)
		r.Post("/refresh", s.HandleRefresh)

		// Display and trend reads.
		r.Get("/fractions", s.HandleGetFractions)
		r.Get("/water/daily", s.HandleWaterDaily)
		r.Get("/history/daily", s.HandleHistoryDaily)
		r.Delete("/history", s.HandleClearHistory)

		r.Get("/profile", s.HandleGetProfile)
		r.Put("/profile", s.HandlePutProfile)
	})

	s.router.Get("/health", s.HandleHealth)
}

// Handler returns the http.Handler for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}
