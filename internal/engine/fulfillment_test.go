package engine

import (
	"context"
	"net/url"
	"testing"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/telemetry"
)

func newRecordingEngine() (*Engine, *telemetry.MemoryRecorder) {
	rec := &telemetry.MemoryRecorder{}
	return New(Config{Recorder: rec}), rec
}

func TestFulfillDomain(t *testing.T) {
	cases := []struct {
		name         string
		domains      []domain.SiteDomain
		wantExcluded bool
		wantTrack    any
	}{
		{"no domains", nil, false, nil},
		{"single domain", []domain.SiteDomain{{Domain: "a.wordpress.com"}}, false, nil},
		{
			"two domains",
			[]domain.SiteDomain{{Domain: "a.wordpress.com"}, {Domain: "a.com"}},
			true, "a.wordpress.com, a.com",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, rec := newRecordingEngine()
			sess := domain.NewSignupSession(FlowOnboarding)

			out := e.FulfillDomain(context.Background(), sess, StepDomains, &FulfillmentContext{
				SiteDomains: tc.domains,
			})

			if out.Excluded != tc.wantExcluded {
				t.Fatalf("excluded: expected %v, got %v", tc.wantExcluded, out.Excluded)
			}
			if !tc.wantExcluded {
				if len(rec.Events()) != 0 {
					t.Fatalf("expected no events, got %d", len(rec.Events()))
				}
				return
			}

			if !sess.IsExcluded(StepDomains) {
				t.Error("domains step should be excluded on the session")
			}
			if v, ok := sess.Dependency(domain.DepDomainItem); !ok || v != nil {
				t.Errorf("expected nil domainItem in store, got %v (present=%v)", v, ok)
			}

			events := rec.ByName(telemetry.EventExcludeStep)
			if len(events) != 1 {
				t.Fatalf("expected 1 exclude event, got %d", len(events))
			}
			if got := events[0].Properties["value"]; got != tc.wantTrack {
				t.Errorf("track value: expected %v, got %v", tc.wantTrack, got)
			}
			if got := events[0].Properties["step"]; got != StepDomains {
				t.Errorf("track step: expected %s, got %v", StepDomains, got)
			}
		})
	}
}

func TestExcludeDomainForPaidPlan(t *testing.T) {
	e, _ := newRecordingEngine()
	ctx := context.Background()

	// Не plan-first flow — no-op, даже с планом в корзине.
	sess := domain.NewSignupSession(FlowOnboarding)
	sess.Provide(map[string]any{domain.DepCartItem: "value_bundle"})
	if out := e.ExcludeDomainForPaidPlan(ctx, sess, StepDomains, nil); out.Excluded {
		t.Error("non-plan-first flow must not exclude domains")
	}

	// Plan-first без плана — no-op.
	sess = domain.NewSignupSession(FlowOnboardingPlanFirst)
	if out := e.ExcludeDomainForPaidPlan(ctx, sess, StepDomains, nil); out.Excluded {
		t.Error("plan-first without a plan must not exclude domains")
	}

	// Plan-first с планом — исключает.
	sess.Provide(map[string]any{domain.DepCartItem: "value_bundle"})
	if out := e.ExcludeDomainForPaidPlan(ctx, sess, StepDomains, nil); !out.Excluded {
		t.Error("plan-first with a paid plan should exclude domains")
	}
}

func TestFulfillPlan_PaidPlan(t *testing.T) {
	e, rec := newRecordingEngine()
	sess := domain.NewSignupSession(FlowOnboarding)

	out := e.FulfillPlan(context.Background(), sess, StepPlans, &FulfillmentContext{
		IsPaidPlan:   true,
		SitePlanSlug: "business-bundle",
	})

	if !out.Excluded {
		t.Fatal("plans step should be excluded when the site plan is paid")
	}
	if v, ok := sess.Dependency(domain.DepCartItem); !ok || v != nil {
		t.Errorf("expected nil cartItem, got %v (present=%v)", v, ok)
	}
	prog, ok := sess.Progress[StepPlans]
	if !ok || !prog.WasSkipped {
		t.Error("plans step should be recorded as skipped")
	}

	events := rec.ByName(telemetry.EventExcludeStep)
	if len(events) != 1 || events[0].Properties["value"] != "business-bundle" {
		t.Errorf("expected exclude event with site plan slug, got %v", events)
	}
}

func TestFulfillPlan_DefaultDependency(t *testing.T) {
	e, _ := newRecordingEngine()
	sess := domain.NewSignupSession(FlowOnboarding)

	out := e.FulfillPlan(context.Background(), sess, StepPlans, &FulfillmentContext{
		DefaultDependencies: map[string]any{domain.DepCartItem: "personal-bundle"},
	})

	if !out.Excluded {
		t.Fatal("plans step should be excluded when a default plan is supplied")
	}
	item, ok := sess.Dependency(domain.DepCartItem)
	if !ok {
		t.Fatal("cartItem missing from store")
	}
	ci, ok := item.(*domain.CartItem)
	if !ok || ci == nil {
		t.Fatalf("expected *domain.CartItem, got %T", item)
	}
	if ci.ProductSlug != "personal-bundle" || ci.FreeTrial {
		t.Errorf("unexpected cart item: %+v", ci)
	}
}

func TestFulfillPlan_FreeDefault(t *testing.T) {
	e, _ := newRecordingEngine()
	sess := domain.NewSignupSession(FlowOnboarding)

	// Бесплатный план синтезирует nil cartItem, но шаг всё равно
	// исключается: ключ присутствует в store.
	out := e.FulfillPlan(context.Background(), sess, StepPlans, &FulfillmentContext{
		DefaultDependencies: map[string]any{domain.DepCartItem: "free_plan"},
	})
	if !out.Excluded {
		t.Fatal("plans step should be excluded for the free default plan")
	}
	v, ok := sess.Dependency(domain.DepCartItem)
	if !ok {
		t.Fatal("cartItem missing from store")
	}
	if ci, _ := v.(*domain.CartItem); ci != nil {
		t.Errorf("free plan must synthesize a nil cart item, got %+v", ci)
	}
}

func TestFulfillPlan_NothingToFulfill(t *testing.T) {
	e, rec := newRecordingEngine()
	sess := domain.NewSignupSession(FlowOnboarding)

	out := e.FulfillPlan(context.Background(), sess, StepPlans, &FulfillmentContext{})
	if out.Excluded {
		t.Error("plans step must stay without a paid plan or a default")
	}
	if len(rec.Events()) != 0 {
		t.Errorf("expected no events, got %d", len(rec.Events()))
	}
}

func TestFulfillSiteType(t *testing.T) {
	e, _ := newRecordingEngine()
	sess := domain.NewSignupSession(FlowOnboarding)

	q := url.Values{}
	q.Set("site_type", "online-store")
	out := e.FulfillSiteType(context.Background(), sess, StepSiteType, &FulfillmentContext{Query: q})

	if !out.Excluded {
		t.Fatal("site-type step should be excluded")
	}
	if v, _ := sess.Dependency(domain.DepSiteType); v != "online-store" {
		t.Errorf("expected siteType online-store, got %v", v)
	}
	if v, _ := sess.Dependency(domain.DepThemeSlugWithRepo); v != "pub/dara" {
		t.Errorf("expected theme pub/dara, got %v", v)
	}
	if prog := sess.Progress[StepSiteType]; prog.WasSkipped {
		t.Error("site-type from query must not be marked as skipped")
	}

	// Неизвестный слаг — no-op.
	sess = domain.NewSignupSession(FlowOnboarding)
	q.Set("site_type", "zoo")
	if out := e.FulfillSiteType(context.Background(), sess, StepSiteType, &FulfillmentContext{Query: q}); out.Excluded {
		t.Error("unknown site_type must not exclude the step")
	}
}

func TestFulfillSiteTopic(t *testing.T) {
	e, rec := newRecordingEngine()
	ctx := context.Background()

	// onboarding не содержит survey-шаг: вертикаль из query работает.
	sess := domain.NewSignupSession(FlowOnboarding)
	q := url.Values{}
	q.Set("vertical", "photography")
	out := e.FulfillSiteTopic(ctx, sess, StepSiteTopic, &FulfillmentContext{Query: q})

	if !out.Excluded {
		t.Fatal("site-topic step should be excluded")
	}
	if v, _ := sess.Dependency(domain.DepSiteTopic); v != "photography" {
		t.Errorf("expected siteTopic photography, got %v", v)
	}
	if v, _ := sess.Dependency(domain.DepSurveySiteType); v != "blog" {
		t.Errorf("expected surveySiteType blog, got %v", v)
	}
	if v, _ := sess.Dependency(domain.DepSurveyQuestion); v != "photography" {
		t.Errorf("expected surveyQuestion photography, got %v", v)
	}
	if prog := sess.Progress[StepSurvey]; !prog.WasSkipped {
		t.Error("survey must be recorded as skipped")
	}

	// photography — landing-page вертикаль: должно быть событие.
	lp := rec.ByName(telemetry.EventVerticalLandingPage)
	if len(lp) != 1 {
		t.Fatalf("expected 1 landing page event, got %d", len(lp))
	}
	if lp[0].Properties["vertical"] != "photography" || lp[0].Properties["flow"] != FlowOnboarding {
		t.Errorf("unexpected landing page payload: %v", lp[0].Properties)
	}

	// Произвольная вертикаль — события нет, шаг всё равно исключается.
	e2, rec2 := newRecordingEngine()
	sess = domain.NewSignupSession(FlowOnboarding)
	q.Set("vertical", "beekeeping")
	if out := e2.FulfillSiteTopic(ctx, sess, StepSiteTopic, &FulfillmentContext{Query: q}); !out.Excluded {
		t.Error("custom vertical should still exclude the step")
	}
	if len(rec2.ByName(telemetry.EventVerticalLandingPage)) != 0 {
		t.Error("custom vertical must not produce a landing page event")
	}
}

func TestExcludeUserlessCheckout(t *testing.T) {
	e, _ := newRecordingEngine()
	ctx := context.Background()

	// Только onboarding-new поддерживает userless checkout.
	sess := domain.NewSignupSession(FlowOnboarding)
	sess.Provide(map[string]any{domain.DepCartItem: "value_bundle"})
	if out := e.ExcludeUserlessCheckout(ctx, sess, StepUser); out.Excluded {
		t.Error("userless checkout applies only to the purchase-first flow")
	}

	// Пустая корзина — шаг остаётся.
	sess = domain.NewSignupSession(FlowOnboardingNew)
	if out := e.ExcludeUserlessCheckout(ctx, sess, StepUser); out.Excluded {
		t.Error("empty cart must not exclude the user step")
	}

	// nil-значения от пропущенных шагов — тоже пустая корзина.
	sess.Provide(map[string]any{
		domain.DepCartItem:   nil,
		domain.DepDomainItem: nil,
	})
	if out := e.ExcludeUserlessCheckout(ctx, sess, StepUser); out.Excluded {
		t.Error("nil cart values must not exclude the user step")
	}

	// Товар в корзине — аккаунт создаётся после оплаты.
	sess.Provide(map[string]any{
		domain.DepDomainItem: &domain.CartItem{ProductSlug: "domain_reg", Meta: "a.com"},
	})
	out := e.ExcludeUserlessCheckout(ctx, sess, StepUser)
	if !out.Excluded {
		t.Fatal("user step should be excluded with a purchase in the cart")
	}
	for _, key := range []string{domain.DepBearerToken, domain.DepUsername, domain.DepMarketingPriceGroup} {
		if v, ok := sess.Dependency(key); !ok || v != nil {
			t.Errorf("expected nil %s in store, got %v (present=%v)", key, v, ok)
		}
	}
}

func TestSyncUpsellStep(t *testing.T) {
	e, _ := newRecordingEngine()
	ctx := context.Background()

	// Платный план — upsell прячется.
	sess := domain.NewSignupSession(FlowOnboardingUpsell)
	sess.Provide(map[string]any{domain.DepCartItem: &domain.CartItem{ProductSlug: "value_bundle"}})
	if out := e.SyncUpsellStep(ctx, sess, StepUpsell); !out.Excluded {
		t.Fatal("upsell should hide for a paid plan")
	}
	if !sess.IsExcluded(StepUpsell) {
		t.Error("upsell should be excluded on the session")
	}

	// Повторный вызов идемпотентен.
	if out := e.SyncUpsellStep(ctx, sess, StepUpsell); !out.Excluded {
		t.Error("repeated sync should keep upsell excluded")
	}
	if len(sess.ExcludedSteps) != 1 {
		t.Errorf("expected 1 excluded step, got %d", len(sess.ExcludedSteps))
	}

	// Бесплатный план + бесплатный домен — тоже прячется.
	sess = domain.NewSignupSession(FlowOnboardingUpsell)
	sess.Provide(map[string]any{
		domain.DepCartItem:   nil,
		domain.DepDomainItem: nil,
	})
	if out := e.SyncUpsellStep(ctx, sess, StepUpsell); !out.Excluded {
		t.Error("upsell should hide for free plan with free domain")
	}

	// Бесплатный план с платным доменом — шаг возвращается в flow.
	sess.Provide(map[string]any{
		domain.DepDomainItem: &domain.CartItem{ProductSlug: "domain_reg", Meta: "a.com"},
	})
	if out := e.SyncUpsellStep(ctx, sess, StepUpsell); out.Excluded {
		t.Error("upsell should return for a paid domain on a free plan")
	}
	if sess.IsExcluded(StepUpsell) {
		t.Error("upsell must no longer be excluded")
	}
	if _, ok := sess.Progress[StepUpsell]; ok {
		t.Error("upsell progress should be removed on reset")
	}
}

// Сквозной сценарий purchase-first: план приходит из зависимостей по
// умолчанию, шаг плана исключается, и синтезированный cartItem виден
// до шага создания аккаунта.
func TestEvaluate_PurchaseFirstFlow(t *testing.T) {
	e, rec := newRecordingEngine()
	sess := domain.NewSignupSession(FlowOnboardingNew)

	outcomes, err := e.Evaluate(context.Background(), sess, &FulfillmentContext{
		DefaultDependencies: map[string]any{domain.DepCartItem: "personal-bundle"},
	})
	if err != nil {
		t.Fatal(err)
	}

	byStep := make(map[string]Outcome, len(outcomes))
	for _, o := range outcomes {
		byStep[o.StepName] = o
	}

	if byStep[StepDomains].Excluded {
		t.Error("domains step should stay: nothing fulfills it")
	}
	if !byStep[StepPlans].Excluded {
		t.Error("plans step should be excluded by the default dependency")
	}
	if !byStep[StepUser].Excluded {
		t.Error("user step should be excluded: the cart already has a purchase")
	}

	ci, ok := sess.Dependency(domain.DepCartItem)
	if !ok {
		t.Fatal("cartItem missing from store")
	}
	if item, _ := ci.(*domain.CartItem); item == nil || item.ProductSlug != "personal-bundle" {
		t.Errorf("unexpected cart item before the user step: %v", ci)
	}

	events := rec.ByName(telemetry.EventExcludeStep)
	if len(events) != 2 {
		t.Errorf("expected 2 exclude events (plans, user), got %d", len(events))
	}
}
