package api

import (
	"errors"
	"net/http"
	"slices"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/engine"
)

// FlowResponse — ответ с определением flow.
type FlowResponse struct {
	Name                string   `json:"name"`
	Steps               []string `json:"steps"`
	DomainStepSkippable bool     `json:"domain_step_skippable,omitempty"`
}

// FlowFromDomain конвертирует domain.Flow в FlowResponse.
func FlowFromDomain(f *domain.Flow) FlowResponse {
	return FlowResponse{
		Name:                f.Name,
		Steps:               f.Steps,
		DomainStepSkippable: f.DomainStepSkippable,
	}
}

// ListFlows возвращает все зарегистрированные flows.
// GET /api/v1/flows
func (h *Handler) ListFlows(w http.ResponseWriter, r *http.Request) {
	names := h.engine.Flows().Names()
	slices.Sort(names)

	result := make([]FlowResponse, 0, len(names))
	for _, name := range names {
		flow, err := h.engine.Flows().Get(name)
		if err != nil {
			continue
		}
		result = append(result, FlowFromDomain(flow))
	}

	List(w, result, len(result))
}

// GetFlow возвращает flow по имени.
// GET /api/v1/flows/{name}
func (h *Handler) GetFlow(w http.ResponseWriter, r *http.Request) {
	flow, err := h.engine.Flows().Get(r.PathValue("name"))
	if err != nil {
		if errors.Is(err, engine.ErrUnknownFlow) {
			NotFound(w, "flow not found")
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Success(w, FlowFromDomain(flow))
}
