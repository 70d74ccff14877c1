/**
 * @description
 * This file sets up the HTTP router for the deposit-service. It defines the API
 * endpoints, associates them with their corresponding handlers, and applies any
 * necessary middleware, such as for authentication and rate limiting.
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
)

// RouterConfig carries the knobs the router needs beyond its handlers.
type RouterConfig struct {
	JWTSecret       string
	RateLimiter     RateLimiter
	RateLimitPerMin int
	RateLimitWindow time.Duration
}

// DepositRoutes creates and returns a new router for the deposit service.
func DepositRoutes(h *DepositHandlers, cfg RouterConfig) http.Handler {
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

	// Group routes that require authentication.
	r.Route("/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.JWTSecret))

		throttled := RateLimitMiddleware(cfg.RateLimiter, "mutations", cfg.RateLimitPerMin, cfg.RateLimitWindow)

		r.Route("/deposits", func(r chi.Router) {
			r.Get("/", h.ListDepositsHandler)
			r.Get("/payment-account", h.GetPaymentAccountHandler)
			r.Get("/dealer-withdrawal-account", h.GetDealerWithdrawalAccountHandler)
			r.Get("/{id}", h.GetDepositHandler)
			r.With(throttled).Post("/", h.CreateDepositHandler)
			r.With(throttled).Put("/{id}", h.UpdateDepositHandler)
			r.With(throttled).Delete("/{id}", h.DeleteDepositHandler)
		})

		r.Route("/payment-methods", func(r chi.Router) {
			r.Get("/", h.ListPaymentMethodsHandler)
			r.Get("/{id}", h.GetPaymentMethodHandler)
			r.With(throttled).Post("/", h.CreatePaymentMethodHandler)
			r.With(throttled).Put("/{id}", h.UpdatePaymentMethodHandler)
			r.With(throttled).Delete("/{id}", h.DeletePaymentMethodHandler)
		})

		r.Route("/payment-method-types", func(r chi.Router) {
			r.Get("/", h.ListPaymentMethodTypesHandler)
			r.With(throttled).Post("/", h.CreatePaymentMethodTypeHandler)
			r.With(throttled).Delete("/{id}", h.DeletePaymentMethodTypeHandler)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/{id}", h.GetAccountHandler)
			r.With(throttled).Put("/{id}", h.UpdateAccountHandler)
			r.With(throttled).Delete("/{id}", h.DeleteAccountHandler)
		})
	})

	return r
}
