package engine

import (
	"context"
	"net/url"
	"strings"

	"github.com/shaiso/Concierge/internal/cart"
	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/telemetry"
)

// FulfillmentContext — уже известный контекст, по которому
// fulfillment-проверки решают, определён ли ответ шага заранее.
type FulfillmentContext struct {
	// Query — query-string параметры входа в flow
	// (site_type, vertical и т.п.).
	Query url.Values

	// SiteDomains — домены, уже привязанные к сайту.
	SiteDomains []domain.SiteDomain

	// IsPaidPlan — у сайта уже есть платный план.
	IsPaidPlan bool

	// SitePlanSlug — слаг текущего плана сайта.
	SitePlanSlug string

	// DefaultDependencies — зависимости по умолчанию, переданные
	// вызывающей стороной (например, слаг плана для cartItem).
	DefaultDependencies map[string]any
}

// Outcome — результат fulfillment-проверки одного шага.
type Outcome struct {
	// StepName — проверенный шаг.
	StepName string `json:"step_name"`

	// Fulfilled — ключи, признанные выполненными.
	Fulfilled []string `json:"fulfilled,omitempty"`

	// Excluded — шаг исключён из flow.
	Excluded bool `json:"excluded"`
}

// Evaluate прогоняет fulfillment-проверки для всех шагов flow сессии.
// Возвращает по Outcome на каждый шаг, у которого есть проверка.
func (e *Engine) Evaluate(ctx context.Context, sess *domain.SignupSession, fctx *FulfillmentContext) ([]Outcome, error) {
	flow, err := e.flows.Get(sess.FlowName)
	if err != nil {
		return nil, err
	}

	var outcomes []Outcome
	for _, stepName := range flow.Steps {
		switch stepName {
		case StepDomains:
			outcomes = append(outcomes, e.FulfillDomain(ctx, sess, stepName, fctx))
			if sess.FlowName == FlowOnboardingPlanFirst {
				outcomes = append(outcomes, e.ExcludeDomainForPaidPlan(ctx, sess, stepName, fctx))
			}
		case StepPlans:
			outcomes = append(outcomes, e.FulfillPlan(ctx, sess, stepName, fctx))
		case StepSiteType:
			outcomes = append(outcomes, e.FulfillSiteType(ctx, sess, stepName, fctx))
		case StepSiteTopic:
			outcomes = append(outcomes, e.FulfillSiteTopic(ctx, sess, stepName, fctx))
		case StepUser:
			outcomes = append(outcomes, e.ExcludeUserlessCheckout(ctx, sess, stepName))
		case StepUpsell:
			outcomes = append(outcomes, e.SyncUpsellStep(ctx, sess, stepName))
		}
	}
	return outcomes, nil
}

// excludeDomainStep — общий путь исключения шага домена: шаг
// отправляется с пустым domainItem, чтобы нижестоящие шаги увидели
// ключ в store.
func (e *Engine) excludeDomainStep(ctx context.Context, sess *domain.SignupSession, stepName string, trackValue any) Outcome {
	fulfilled := []string{domain.DepDomainItem}
	excluded := e.submitAndMaybeExclude(
		ctx, sess, stepName, false,
		map[string]any{domain.DepDomainItem: nil},
		trackValue, fulfilled,
	)
	return Outcome{StepName: stepName, Fulfilled: fulfilled, Excluded: excluded}
}

// FulfillDomain исключает шаг выбора домена, когда у сайта уже больше
// одного домена. Единственный домен неоднозначен (может быть только
// *.wordpress.com-адресом) и шаг не исключает.
func (e *Engine) FulfillDomain(ctx context.Context, sess *domain.SignupSession, stepName string, fctx *FulfillmentContext) Outcome {
	if fctx == nil || len(fctx.SiteDomains) <= 1 {
		return Outcome{StepName: stepName}
	}

	names := make([]string, len(fctx.SiteDomains))
	for i, d := range fctx.SiteDomains {
		names[i] = d.Domain
	}
	return e.excludeDomainStep(ctx, sess, stepName, strings.Join(names, ", "))
}

// ExcludeDomainForPaidPlan исключает шаг домена в plan-first flow,
// когда платный план уже выбран.
func (e *Engine) ExcludeDomainForPaidPlan(ctx context.Context, sess *domain.SignupSession, stepName string, fctx *FulfillmentContext) Outcome {
	if sess.FlowName != FlowOnboardingPlanFirst {
		return Outcome{StepName: stepName}
	}
	if !hasNonEmptyDependency(sess, domain.DepCartItem) {
		return Outcome{StepName: stepName}
	}
	return e.excludeDomainStep(ctx, sess, stepName, nil)
}

// FulfillPlan исключает шаг выбора плана. Два независимых пути:
// у сайта уже есть платный план, либо вызывающая сторона передала
// позицию корзины в зависимостях по умолчанию. Оба проходят одну и ту
// же последовательность synthesize → submit → exclude.
func (e *Engine) FulfillPlan(ctx context.Context, sess *domain.SignupSession, stepName string, fctx *FulfillmentContext) Outcome {
	if fctx == nil {
		return Outcome{StepName: stepName}
	}

	var (
		fulfilled  []string
		deps       map[string]any
		trackValue any
	)

	switch {
	case fctx.IsPaidPlan:
		// План уже оплачен — шаг производит пустой cartItem.
		deps = map[string]any{domain.DepCartItem: nil}
		trackValue = fctx.SitePlanSlug
		fulfilled = []string{domain.DepCartItem}
	case defaultPlanSlug(fctx) != "":
		slug := defaultPlanSlug(fctx)
		deps = map[string]any{domain.DepCartItem: cart.PlanItem(slug)}
		trackValue = slug
		fulfilled = []string{domain.DepCartItem}
	default:
		return Outcome{StepName: stepName}
	}

	excluded := e.submitAndMaybeExclude(ctx, sess, stepName, true, deps, trackValue, fulfilled)
	return Outcome{StepName: stepName, Fulfilled: fulfilled, Excluded: excluded}
}

// FulfillSiteType исключает шаг типа сайта по query-параметру site_type.
func (e *Engine) FulfillSiteType(ctx context.Context, sess *domain.SignupSession, stepName string, fctx *FulfillmentContext) Outcome {
	if fctx == nil || len(fctx.Query) == 0 {
		return Outcome{StepName: stepName}
	}

	slug := fctx.Query.Get("site_type")
	st, ok := SiteTypeBySlug(slug)
	if !ok {
		return Outcome{StepName: stepName}
	}

	e.logger.Debug("site type from query string", "site_type", slug)

	fulfilled := []string{domain.DepSiteType, domain.DepThemeSlugWithRepo}
	deps := map[string]any{
		domain.DepSiteType:          st.Slug,
		domain.DepThemeSlugWithRepo: st.Theme,
	}
	excluded := e.submitAndMaybeExclude(ctx, sess, stepName, false, deps, slug, fulfilled)
	return Outcome{StepName: stepName, Fulfilled: fulfilled, Excluded: excluded}
}

// FulfillSiteTopic исключает шаг вертикали по query-параметру vertical.
// Работает только для flows без отдельного survey-шага: там вертикаль
// собирает survey.
func (e *Engine) FulfillSiteTopic(ctx context.Context, sess *domain.SignupSession, stepName string, fctx *FulfillmentContext) Outcome {
	if fctx == nil || len(fctx.Query) == 0 {
		return Outcome{StepName: stepName}
	}

	vertical := fctx.Query.Get("vertical")
	if vertical == "" {
		return Outcome{StepName: stepName}
	}

	flow, err := e.flows.Get(sess.FlowName)
	if err != nil || flow.HasStep(StepSurvey) {
		return Outcome{StepName: stepName}
	}

	e.logger.Debug("vertical from query string", "vertical", vertical)

	// Survey отправляется как пропущенный, чтобы его ответы появились
	// в store до шага вертикали.
	sess.SubmitStep(StepSurvey, true, map[string]any{
		domain.DepSurveySiteType: "blog",
		domain.DepSurveyQuestion: vertical,
	})

	if IsValidLandingPageVertical(vertical) {
		e.recorder.Record(ctx, telemetry.Event{
			Name: telemetry.EventVerticalLandingPage,
			Properties: map[string]any{
				"vertical": vertical,
				"flow":     sess.FlowName,
			},
		})
	}

	fulfilled := []string{
		domain.DepSurveySiteType, domain.DepSurveyQuestion,
		domain.DepSiteTopic,
	}
	deps := map[string]any{domain.DepSiteTopic: vertical}
	excluded := e.submitAndMaybeExclude(ctx, sess, stepName, false, deps, vertical, fulfilled)
	return Outcome{StepName: stepName, Fulfilled: fulfilled, Excluded: excluded}
}

// ExcludeUserlessCheckout исключает шаг создания аккаунта в
// purchase-first flow: если покупка уже в корзине, аккаунт создаётся
// после оплаты, а не до.
func (e *Engine) ExcludeUserlessCheckout(ctx context.Context, sess *domain.SignupSession, stepName string) Outcome {
	if sess.FlowName != FlowOnboardingNew {
		return Outcome{StepName: stepName}
	}

	if !hasNonEmptyDependency(sess, domain.DepCartItem) &&
		!hasNonEmptyDependency(sess, domain.DepDomainItem) {
		return Outcome{StepName: stepName}
	}

	fulfilled := []string{
		domain.DepBearerToken, domain.DepUsername,
		domain.DepMarketingPriceGroup,
	}
	deps := map[string]any{
		domain.DepBearerToken:         nil,
		domain.DepUsername:            nil,
		domain.DepMarketingPriceGroup: nil,
	}
	excluded := e.submitAndMaybeExclude(ctx, sess, stepName, false, deps, nil, fulfilled)
	return Outcome{StepName: stepName, Fulfilled: fulfilled, Excluded: excluded}
}

// SyncUpsellStep прячет upsell-шаг, когда предложение неуместно:
// выбран платный план либо явно выбраны бесплатный план и бесплатный
// домен. Иначе возвращает ранее исключённый шаг обратно в flow.
func (e *Engine) SyncUpsellStep(ctx context.Context, sess *domain.SignupSession, stepName string) Outcome {
	hasCartKey := sess.Has(domain.DepCartItem)
	hasDomainKey := sess.Has(domain.DepDomainItem)
	paidPlan := hasNonEmptyDependency(sess, domain.DepCartItem)
	freePlanFreeDomain := hasCartKey && !paidPlan &&
		hasDomainKey && !hasNonEmptyDependency(sess, domain.DepDomainItem)

	if paidPlan || freePlanFreeDomain {
		if sess.IsExcluded(stepName) {
			return Outcome{StepName: stepName, Excluded: true}
		}
		sess.SubmitStep(stepName, false, nil)
		sess.ExcludeStep(stepName)
		return Outcome{StepName: stepName, Excluded: true}
	}

	if sess.IsExcluded(stepName) {
		sess.ResetExcludedStep(stepName)
		sess.RemoveStep(stepName)
	}
	return Outcome{StepName: stepName}
}

// defaultPlanSlug достаёт слаг плана из зависимостей по умолчанию.
func defaultPlanSlug(fctx *FulfillmentContext) string {
	if fctx.DefaultDependencies == nil {
		return ""
	}
	slug, _ := fctx.DefaultDependencies[domain.DepCartItem].(string)
	return slug
}

// hasNonEmptyDependency возвращает true, когда ключ присутствует в
// store и его значение непустое. Пропущенные шаги пишут nil-значения —
// они считаются пустыми.
func hasNonEmptyDependency(sess *domain.SignupSession, key string) bool {
	v, ok := sess.Dependency(key)
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case *domain.CartItem:
		return t != nil
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
