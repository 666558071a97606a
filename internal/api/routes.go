package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Flows (read-only: реестр фиксирован на время релиза)
	mux.Handle("GET /api/v1/flows", chain(http.HandlerFunc(h.ListFlows)))
	mux.Handle("GET /api/v1/flows/{name}", chain(http.HandlerFunc(h.GetFlow)))

	// Sessions
	mux.Handle("GET /api/v1/sessions", chain(http.HandlerFunc(h.ListSessions)))
	mux.Handle("POST /api/v1/sessions", chain(http.HandlerFunc(h.CreateSession)))
	mux.Handle("GET /api/v1/sessions/{id}", chain(http.HandlerFunc(h.GetSession)))
	mux.Handle("POST /api/v1/sessions/{id}/steps/{step}", chain(http.HandlerFunc(h.SubmitStep)))
	mux.Handle("POST /api/v1/sessions/{id}/evaluate", chain(http.HandlerFunc(h.EvaluateSession)))
	mux.Handle("POST /api/v1/sessions/{id}/complete", chain(http.HandlerFunc(h.CompleteSession)))
	mux.Handle("POST /api/v1/sessions/{id}/abandon", chain(http.HandlerFunc(h.AbandonSession)))

	// Signup actions
	mux.Handle("POST /api/v1/sessions/{id}/site", chain(http.HandlerFunc(h.CreateSiteOrDomain)))
	mux.Handle("POST /api/v1/sessions/{id}/account", chain(http.HandlerFunc(h.CreateAccount)))
	mux.Handle("GET /api/v1/sessions/{id}/pending-checkout", chain(http.HandlerFunc(h.GetPendingCheckout)))
	mux.Handle("DELETE /api/v1/sessions/{id}/pending-checkout", chain(http.HandlerFunc(h.ClearPendingCheckout)))

	// Checkout
	mux.Handle("POST /api/v1/checkout/transactions", chain(http.HandlerFunc(h.SubmitTransaction)))
	mux.Handle("GET /api/v1/checkout/transactions/latest", chain(http.HandlerFunc(h.LatestTransaction)))
	mux.Handle("DELETE /api/v1/checkout/transactions/latest", chain(http.HandlerFunc(h.ClearTransaction)))
}
