package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shaiso/Concierge/internal/domain"
)

// Имена flows.
const (
	FlowOnboarding          = "onboarding"
	FlowOnboardingNew       = "onboarding-new"
	FlowOnboardingPlanFirst = "onboarding-plan-first"
	FlowOnboardingUpsell    = "onboarding-with-upsell"
	FlowImport              = "import"
	FlowImportOnboarding    = "import-onboarding"
	FlowTestFSE             = "test-fse"
	FlowDomain              = "domain"
	FlowLaunchSite          = "launch-site"
	FlowP2                  = "p2"
	FlowWPForTeams          = "wp-for-teams"
)

// FlowRegistry — реестр определений flows. Потокобезопасен.
type FlowRegistry struct {
	mu    sync.RWMutex
	flows map[string]*domain.Flow
}

// NewFlowRegistry создаёт пустой реестр.
func NewFlowRegistry() *FlowRegistry {
	return &FlowRegistry{flows: make(map[string]*domain.Flow)}
}

// DefaultFlows создаёт реестр со всеми flows signup.
func DefaultFlows() *FlowRegistry {
	r := NewFlowRegistry()

	r.Register(&domain.Flow{
		Name: FlowOnboarding,
		Steps: []string{
			StepSiteType, StepSiteTopic, StepSiteTitle,
			StepDomains, StepPlans, StepUser,
		},
		DomainStepSkippable: true,
	})

	// Purchase-first: аккаунт создаётся после оплаты,
	// шаг user может быть исключён userless-checkout-проверкой.
	r.Register(&domain.Flow{
		Name:  FlowOnboardingNew,
		Steps: []string{StepDomains, StepPlans, StepUser},
	})

	r.Register(&domain.Flow{
		Name:  FlowOnboardingPlanFirst,
		Steps: []string{StepPlans, StepDomains, StepUser},
	})

	r.Register(&domain.Flow{
		Name:  FlowOnboardingUpsell,
		Steps: []string{StepDomains, StepPlans, StepUpsell, StepUser},
	})

	r.Register(&domain.Flow{
		Name:  FlowImport,
		Steps: []string{StepImportURL, StepSiteTitle, StepDomains, StepUser},
	})

	r.Register(&domain.Flow{
		Name: FlowImportOnboarding,
		Steps: []string{
			StepImportURL, StepSiteType, StepSiteTitle,
			StepDomains, StepUser,
		},
	})

	r.Register(&domain.Flow{
		Name:                FlowTestFSE,
		Steps:               []string{StepSiteTitle, StepDomains, StepPlans, StepUser},
		DomainStepSkippable: true,
	})

	r.Register(&domain.Flow{
		Name:  FlowDomain,
		Steps: []string{StepDomains, StepPlans, StepUser},
	})

	r.Register(&domain.Flow{
		Name:  FlowLaunchSite,
		Steps: []string{StepLaunch},
	})

	// p2 — legacy-имя; при создании аккаунта переименовывается
	// в wp-for-teams.
	p2Steps := []string{StepP2Site, StepUser}
	r.Register(&domain.Flow{Name: FlowP2, Steps: p2Steps})
	r.Register(&domain.Flow{Name: FlowWPForTeams, Steps: p2Steps})

	return r
}

// Register регистрирует flow. Существующий flow перезаписывается.
func (r *FlowRegistry) Register(flow *domain.Flow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[flow.Name] = flow
}

// Get возвращает определение flow.
func (r *FlowRegistry) Get(name string) (*domain.Flow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	flow, ok := r.flows[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFlow, name)
	}
	return flow, nil
}

// Has возвращает true, если flow зарегистрирован.
func (r *FlowRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.flows[name]
	return ok
}

// Names возвращает отсортированные имена flows.
func (r *FlowRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.flows))
	for name := range r.flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsDomainStepSkippable возвращает true, если в flow шаг домена можно
// пропустить. Для неизвестного flow — false.
func (r *FlowRegistry) IsDomainStepSkippable(flowName string) bool {
	flow, err := r.Get(flowName)
	if err != nil {
		return false
	}
	return flow.DomainStepSkippable
}
