package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/engine"
	"github.com/shaiso/Concierge/internal/mq"
	"github.com/shaiso/Concierge/internal/repo"
)

// ListSessions возвращает список сессий с фильтрацией.
// GET /api/v1/sessions?flow=...&status=...&limit=...&offset=...
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	filter := repo.SessionFilter{
		FlowName: r.URL.Query().Get("flow"),
		Status:   domain.SessionStatus(r.URL.Query().Get("status")),
		Limit:    50,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		filter.Limit = int(mustParseInt(limitStr, 50))
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		filter.Offset = int(mustParseInt(offsetStr, 0))
	}

	sessions, err := h.sessions.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]SessionResponse, len(sessions))
	for i := range sessions {
		result[i] = SessionFromDomain(&sessions[i])
	}

	List(w, result, len(result))
}

// CreateSession создаёт новую signup-сессию.
// POST /api/v1/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.FlowName == "" {
		BadRequest(w, "flow_name is required")
		return
	}
	if !h.engine.Flows().Has(req.FlowName) {
		BadRequest(w, "unknown flow: "+req.FlowName)
		return
	}

	sess := domain.NewSignupSession(req.FlowName)
	if len(req.Dependencies) > 0 {
		sess.Provide(req.Dependencies)
	}

	if err := h.sessions.Create(r.Context(), sess); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	h.publishSessionEvent(r, mq.MessageTypeSessionCreated, sess)

	Created(w, SessionFromDomain(sess))
}

// GetSession возвращает сессию по ID.
// GET /api/v1/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	Success(w, SessionFromDomain(sess))
}

// SubmitStep записывает прохождение шага и его зависимости.
// POST /api/v1/sessions/{id}/steps/{step}
func (h *Handler) SubmitStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	stepName := r.PathValue("step")
	if !h.engine.Steps().Has(stepName) {
		BadRequest(w, "unknown step: "+stepName)
		return
	}

	flow, err := h.engine.Flows().Get(sess.FlowName)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}
	if !flow.HasStep(stepName) {
		InvalidState(w, fmt.Sprintf("%s: %q in flow %q", engine.ErrStepNotInFlow, stepName, sess.FlowName))
		return
	}

	var req SubmitStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	sess.SubmitStep(stepName, req.WasSkipped, req.Dependencies)

	if err := h.sessions.Update(r.Context(), sess); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, SessionFromDomain(sess))
}

// EvaluateSession прогоняет fulfillment-проверки по шагам flow сессии.
// POST /api/v1/sessions/{id}/evaluate
func (h *Handler) EvaluateSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	query := url.Values{}
	for k, v := range req.Query {
		query.Set(k, v)
	}

	fctx := &engine.FulfillmentContext{
		Query:               query,
		SiteDomains:         req.SiteDomains,
		IsPaidPlan:          req.IsPaidPlan,
		SitePlanSlug:        req.SitePlanSlug,
		DefaultDependencies: req.DefaultDependencies,
	}

	outcomes, err := h.engine.Evaluate(r.Context(), sess, fctx)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	if err := h.sessions.Update(r.Context(), sess); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, EvaluateResponse{
		Outcomes: outcomes,
		Session:  SessionFromDomain(sess),
	})
}

// CompleteSession переводит сессию в статус COMPLETED.
// POST /api/v1/sessions/{id}/complete
func (h *Handler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	h.finishSession(w, r, mq.MessageTypeSessionCompleted)
}

// AbandonSession переводит сессию в статус ABANDONED.
// POST /api/v1/sessions/{id}/abandon
func (h *Handler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	h.finishSession(w, r, mq.MessageTypeSessionAbandoned)
}

// GetPendingCheckout возвращает отложенную корзину сессии.
// GET /api/v1/sessions/{id}/pending-checkout
func (h *Handler) GetPendingCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid session id")
		return
	}

	items, params, err := h.sessions.PendingCheckout(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "session not found") {
		return
	}

	Success(w, PendingCheckoutResponse{
		ShoppingCart: items,
		SiteParams:   params,
	})
}

// ClearPendingCheckout удаляет отложенную корзину сессии.
// DELETE /api/v1/sessions/{id}/pending-checkout
func (h *Handler) ClearPendingCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid session id")
		return
	}

	if err := h.sessions.ClearPendingCheckout(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "session not found") {
			return
		}
	}

	NoContent(w)
}

// finishSession — общий путь завершения сессии.
func (h *Handler) finishSession(w http.ResponseWriter, r *http.Request, msgType mq.MessageType) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	if sess.Status.IsTerminal() {
		InvalidState(w, "session is already finished")
		return
	}

	switch msgType {
	case mq.MessageTypeSessionCompleted:
		sess.MarkCompleted()
	default:
		sess.MarkAbandoned()
	}

	if err := h.sessions.Update(r.Context(), sess); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	h.publishSessionEvent(r, msgType, sess)

	Success(w, SessionFromDomain(sess))
}

// loadSession парсит ID из пути и загружает сессию.
// При ошибке пишет ответ и возвращает false.
func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (*domain.SignupSession, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid session id")
		return nil, false
	}

	sess, err := h.sessions.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "session not found") {
		return nil, false
	}

	return sess, true
}

// publishSessionEvent публикует событие жизненного цикла сессии.
func (h *Handler) publishSessionEvent(r *http.Request, msgType mq.MessageType, sess *domain.SignupSession) {
	if h.publisher == nil {
		return
	}
	payload := mq.SessionEventPayload{
		SessionID: sess.ID,
		FlowName:  sess.FlowName,
		Status:    sess.Status,
	}
	if err := h.publisher.PublishSessionEvent(r.Context(), msgType, payload); err != nil {
		h.logger.Warn("failed to publish session event",
			"session_id", sess.ID, "type", msgType, "error", err)
	}
}

// mustParseInt парсит строку в int с дефолтным значением.
func mustParseInt(s string, defaultVal int64) int64 {
	if n, err := json.Number(s).Int64(); err == nil {
		return n
	}
	return defaultVal
}
