/**
 * @description
 * This file sets up the HTTP router for the payout console. It defines the
 * API endpoints, associates them with their handlers, and applies the
 * standard middleware stack plus the session middleware.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/muralops/payout-console/internal/app"
)

// ConsoleRoutes creates and returns the router for the payout console.
// metricsHandler serves the Prometheus registry; pass nil to disable the
// /metrics route.
func ConsoleRoutes(h *ConsoleHandlers, sessions *app.SessionManager, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	// Session creation is the only route that runs without a session.
	r.Post("/sessions", h.CreateSessionHandler)

	// Everything else is scoped to a live console session.
	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(sessions))

		r.Get("/view", h.GetViewHandler)
		r.Post("/view", h.NavigateHandler)

		r.Post("/accounts", h.CreateAccountHandler)
		r.Get("/accounts", h.ListAccountsHandler)
		r.Post("/accounts/select", h.SelectAccountHandler)

		r.Post("/payouts/blockchain", h.CreateBlockchainPayoutHandler)
		r.Post("/payouts/fiat", h.CreateFiatPayoutHandler)
		r.Get("/payouts/current", h.GetCurrentPayoutHandler)
		r.Post("/payouts/execute", h.ExecutePayoutHandler)
		r.Post("/payouts/cancel", h.CancelPayoutHandler)
		r.Post("/payouts/search", h.SearchPayoutsHandler)
		r.Get("/payouts/{id}", h.GetPayoutHandler)
	})

	return r
}
