package domain

// Flow — определение signup-flow.
//
// Flow — это упорядоченный список имён шагов. Определение неизменяемо в
// рамках релиза; идентифицируется строковым именем
// (например, "onboarding-new").
type Flow struct {
	// Name — уникальное имя flow.
	Name string `json:"name"`

	// Steps — упорядоченный список имён шагов.
	Steps []string `json:"steps"`

	// DomainStepSkippable — можно ли в этом flow пропустить шаг выбора
	// домена (влияет на автогенерацию имени блога при создании сайта).
	DomainStepSkippable bool `json:"domain_step_skippable,omitempty"`
}

// HasStep возвращает true, если шаг входит в flow.
func (f *Flow) HasStep(stepName string) bool {
	for _, s := range f.Steps {
		if s == stepName {
			return true
		}
	}
	return false
}

// StepDef — определение шага signup-flow.
//
// Каждый шаг декларирует, какие ключи dependency store он производит.
// Шаг можно исключить из flow, только если все его обязательные ключи
// (ProvidesDependencies минус OptionalDependencies) уже известны.
type StepDef struct {
	// Name — уникальное имя шага в рамках всех flows.
	Name string `json:"name"`

	// ProvidesDependencies — ключи, которые производит выполнение шага.
	ProvidesDependencies []string `json:"provides_dependencies,omitempty"`

	// OptionalDependencies — подмножество ProvidesDependencies, которое
	// шаг может и не произвести.
	OptionalDependencies []string `json:"optional_dependencies,omitempty"`

	// Dependencies — ключи, которые должны быть в store до выполнения шага.
	Dependencies []string `json:"dependencies,omitempty"`
}

// Имена ключей dependency store. Производятся шагами либо подставляются
// из query-string; имена входят в контракт и не меняются.
const (
	DepSiteID               = "siteId"
	DepSiteSlug             = "siteSlug"
	DepDomainItem           = "domainItem"
	DepCartItem             = "cartItem"
	DepThemeItem            = "themeItem"
	DepThemeSlugWithRepo    = "themeSlugWithRepo"
	DepBearerToken          = "bearer_token"
	DepUsername             = "username"
	DepMarketingPriceGroup  = "marketing_price_group"
	DepSiteType             = "siteType"
	DepSiteTopic            = "siteTopic"
	DepSurveySiteType       = "surveySiteType"
	DepSurveyQuestion       = "surveyQuestion"
	DepShouldHideFreePlan   = "shouldHideFreePlan"
	DepUseThemeHeadstart    = "useThemeHeadstart"
	DepAllowUnauthenticated = "allowUnauthenticated"
)
