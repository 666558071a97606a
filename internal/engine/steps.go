package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shaiso/Concierge/internal/domain"
)

// Имена шагов.
const (
	StepDomains   = "domains"
	StepPlans     = "plans"
	StepUser      = "user"
	StepSiteType  = "site-type"
	StepSiteTopic = "site-topic"
	StepSiteTitle = "site-title"
	StepSurvey    = "survey"
	StepImportURL = "import-url"
	StepUpsell    = "plans-upsell"
	StepLaunch    = "launch"
	StepP2Site    = "p2-site"
)

// StepRegistry — реестр определений шагов. Потокобезопасен.
type StepRegistry struct {
	mu    sync.RWMutex
	steps map[string]*domain.StepDef
}

// NewStepRegistry создаёт пустой реестр.
func NewStepRegistry() *StepRegistry {
	return &StepRegistry{steps: make(map[string]*domain.StepDef)}
}

// DefaultSteps создаёт реестр со всеми шагами signup.
//
// Шаг исключается из flow, только когда все его обязательные ключи
// (provides минус optional) уже известны, поэтому состав множеств ниже —
// часть семантики исключения, а не справочная информация.
func DefaultSteps() *StepRegistry {
	r := NewStepRegistry()

	r.Register(&domain.StepDef{
		Name: StepDomains,
		ProvidesDependencies: []string{
			domain.DepSiteID, domain.DepSiteSlug,
			domain.DepDomainItem, domain.DepThemeItem,
		},
		// Шаг обязан произвести только domainItem: сайт и тема могут
		// появиться позже, на шаге создания сайта.
		OptionalDependencies: []string{
			domain.DepSiteID, domain.DepSiteSlug, domain.DepThemeItem,
		},
	})

	r.Register(&domain.StepDef{
		Name:                 StepPlans,
		ProvidesDependencies: []string{domain.DepCartItem},
	})

	r.Register(&domain.StepDef{
		Name: StepUser,
		ProvidesDependencies: []string{
			domain.DepBearerToken, domain.DepUsername,
			domain.DepMarketingPriceGroup,
		},
	})

	r.Register(&domain.StepDef{
		Name: StepSiteType,
		ProvidesDependencies: []string{
			domain.DepSiteType, domain.DepThemeSlugWithRepo,
		},
	})

	r.Register(&domain.StepDef{
		Name: StepSiteTopic,
		ProvidesDependencies: []string{
			domain.DepSiteTopic, domain.DepSurveySiteType,
			domain.DepSurveyQuestion,
		},
		OptionalDependencies: []string{
			domain.DepSurveySiteType, domain.DepSurveyQuestion,
		},
	})

	r.Register(&domain.StepDef{
		Name:                 StepSiteTitle,
		ProvidesDependencies: []string{"siteTitle"},
	})

	r.Register(&domain.StepDef{
		Name: StepSurvey,
		ProvidesDependencies: []string{
			domain.DepSurveySiteType, domain.DepSurveyQuestion,
		},
	})

	r.Register(&domain.StepDef{
		Name:                 StepImportURL,
		ProvidesDependencies: []string{"importSiteEngine", "importSiteUrl"},
	})

	// Upsell не производит зависимостей: шаг либо показывается, либо нет.
	r.Register(&domain.StepDef{Name: StepUpsell})

	r.Register(&domain.StepDef{
		Name:         StepLaunch,
		Dependencies: []string{domain.DepSiteSlug},
	})

	r.Register(&domain.StepDef{
		Name:                 StepP2Site,
		ProvidesDependencies: []string{domain.DepSiteSlug},
	})

	return r
}

// Register регистрирует шаг. Существующий шаг перезаписывается.
func (r *StepRegistry) Register(step *domain.StepDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[step.Name] = step
}

// Get возвращает определение шага.
func (r *StepRegistry) Get(name string) (*domain.StepDef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	step, ok := r.steps[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStep, name)
	}
	return step, nil
}

// Has возвращает true, если шаг зарегистрирован.
func (r *StepRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.steps[name]
	return ok
}

// Names возвращает отсортированные имена шагов.
func (r *StepRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.steps))
	for name := range r.steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
