package api

import (
	"encoding/json"
	"net/http"

	"github.com/shaiso/Concierge/internal/signup"
)

// CreateSiteOrDomain выполняет шаг выбора домена для сессии.
// POST /api/v1/sessions/{id}/site
func (h *Handler) CreateSiteOrDomain(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req CreateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	data := &signup.SiteData{
		SiteID:        req.SiteID,
		SiteSlug:      req.SiteSlug,
		FlowName:      req.FlowName,
		LastKnownFlow: req.LastKnownFlow,
		Public:        req.Public,
		ComingSoon:    req.ComingSoon,
		InPageBuilder: req.InPageBuilder,
		Username:      req.Username,
		Timezone:      req.Timezone,
	}

	provided, err := h.signup.CreateSiteOrDomain(r.Context(), sess, data)
	if HandleSignupError(w, h.logger, err) {
		return
	}

	sess.Provide(provided)
	if err := h.sessions.Update(r.Context(), sess); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, ProvidedResponse{
		Provided: provided,
		Session:  SessionFromDomain(sess),
	})
}

// CreateAccount выполняет шаг создания аккаунта для сессии.
// POST /api/v1/sessions/{id}/account
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	provided, err := h.signup.CreateAccount(r.Context(), sess, AccountDataFromRequest(&req))
	if HandleSignupError(w, h.logger, err) {
		return
	}

	sess.Provide(provided)
	if err := h.sessions.Update(r.Context(), sess); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, ProvidedResponse{
		Provided: provided,
		Session:  SessionFromDomain(sess),
	})
}
