package api

import (
	"mission-route-service/internal/api/handlers"
	"mission-route-service/internal/ports"
	"mission-route-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Units    ports.UnitRepository
	Rates    ports.RateRepository
	Sessions *services.TripSessions
	Missions *services.MissionService
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	units := &handlers.UnitHandler{Repo: d.Units}
	rates := &handlers.RateHandler{Repo: d.Rates}
	trips := &handlers.TripHandler{Sessions: d.Sessions}
	missions := &handlers.MissionHandler{Missions: d.Missions, Sessions: d.Sessions}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Route("/units", func(r chi.Router) {
		r.Get("/", units.List)
		r.Post("/", units.Create)
	})

	r.Route("/rates", func(r chi.Router) {
		r.Get("/", rates.List)
		r.Post("/", rates.Create)
		r.Get("/effective", rates.Effective)
	})

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", trips.Create)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", trips.Get)
			r.Delete("/", trips.Delete)
			r.Post("/destinations", trips.AddDestination)
			r.Delete("/destinations/{index}", trips.RemoveDestination)
			r.Put("/origin", trips.SetOrigin)
			r.Put("/mission-date", trips.SetMissionDate)
			r.Post("/recompute", trips.Recompute)
			r.Get("/ws", trips.Stream)
		})
	})

	r.Route("/missions", func(r chi.Router) {
		r.Get("/", missions.List)
		r.Post("/", missions.Create)
		r.Get("/{missionID}", missions.Get)
		r.Put("/{missionID}", missions.Update)
	})

	return r
}
