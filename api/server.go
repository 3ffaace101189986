/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:         Request logging
  2. Recoverer:      Panic recovery (500 instead of crash)
  3. RequestID:      Unique ID per request for tracing
  4. countRequests:  Prometheus request counter
  5. CORS:           Cross-origin requests for the admin frontend

ROUTE GROUPS:
  /api/employees/*   Employee management, punches, absences, reconciliation
  /api/punches/*     Punch corrections
  /api/holidays      Canton holiday catalog
  /metrics           Prometheus scrape endpoint
  /healthz           Liveness probe

SECURITY NOTE:
  No authentication middleware; the service runs behind the office reverse
  proxy which terminates auth.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/timecored/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(countRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.SaveEmployee)
			r.Get("/{id}", h.GetEmployee)

			// Time tracking
			r.Post("/{id}/punches", h.RecordPunch)
			r.Get("/{id}/summaries", h.GetSummaries)

			// Absences
			r.Get("/{id}/vacations", h.ListVacations)
			r.Post("/{id}/vacations", h.CreateVacation)
			r.Get("/{id}/sick-leaves", h.ListSickLeaves)
			r.Post("/{id}/sick-leaves", h.CreateSickLeave)
			r.Get("/{id}/holiday-options", h.ListHolidayOptions)
			r.Put("/{id}/holiday-options", h.SetHolidayOption)

			// Reconciliation
			r.Get("/{id}/expected", h.GetExpected)
			r.Get("/{id}/week", h.GetWeek)
			r.Get("/{id}/balance", h.GetBalance)
			r.Post("/{id}/week/close", h.CloseWeek)
			r.Post("/{id}/balance/recompute", h.RecomputeBalance)
			r.Get("/{id}/problems", h.GetProblems)
		})

		// Punch correction routes
		r.Route("/punches", func(r chi.Router) {
			r.Post("/{punchID}/correct", h.CorrectPunch)
		})

		// Holiday routes
		r.Get("/holidays", h.ListHolidays)
	})

	// Operational endpoints
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
