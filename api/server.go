/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the studio frontend

ROUTE GROUPS:
  /api/staff/*          Staff ledger
  /api/bookings/*       Bookings, progress, payment status
  /api/events/*         Assignments and workflow checklists
  /api/schedule/*       Double bookings and coverage shortages
  /api/scenarios/*      Demo scenarios
  /api/reset            Store reset (dev only)

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/staff", func(r chi.Router) {
			r.Get("/", h.ListStaff)
			r.Post("/", h.SaveStaff)
			r.Get("/top-due", h.TopDue)
			r.Get("/{id}", h.GetStaff)
			r.Get("/{id}/history", h.GetStaffHistory)
			r.Get("/{id}/events", h.GetStaffEvents)
		})

		r.Post("/staff-payments", h.CreateStaffPayment)
		r.Post("/client-payments", h.CreateClientPayment)
		r.Post("/agreed-amounts", h.SaveAgreed)

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.ListBookings)
			r.Post("/", h.SaveBooking)
			r.Get("/{id}", h.GetBooking)
			r.Post("/{id}/events", h.CreateEvent)
		})

		r.Get("/clients", h.ListClients)

		r.Route("/events", func(r chi.Router) {
			r.Post("/{id}/assignments", h.CreateAssignment)
			r.Get("/{id}/workflow", h.GetWorkflow)
			r.Put("/{id}/workflow", h.UpdateWorkflow)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.ExpenseTotals)
			r.Post("/", h.CreateExpense)
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/alerts", h.ScheduleAlerts)
			r.Get("/alerts/last", h.LastAlerts)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})

		r.Post("/reset", h.ResetDatabase)
	})

	return r
}
