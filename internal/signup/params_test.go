package signup

import (
	"testing"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/engine"
)

func TestBuildNewSiteParams_AutoGeneratedBlogName(t *testing.T) {
	svc, _ := newTestService(&fakeClient{})

	// Пропускаемый шаг домена без явного URL — автогенерация имени,
	// приоритет: username → заголовок → тип → вертикаль.
	sess := domain.NewSignupSession(engine.FlowOnboarding)
	sess.Provide(map[string]any{
		depSiteTitle:       "My Travel Blog",
		domain.DepSiteType: "blog",
	})

	params := svc.BuildNewSiteParams(&SiteParamsInput{
		Session:  sess,
		FlowName: engine.FlowOnboarding,
		Username: "wanderer",
	})

	if params.BlogName != "wanderer" {
		t.Errorf("expected username as blog_name, got %q", params.BlogName)
	}
	if !params.FindAvailableURL {
		t.Error("auto-generated names must request a free URL")
	}
	if params.BlogTitle != "My Travel Blog" {
		t.Errorf("unexpected blog_title: %q", params.BlogTitle)
	}

	// Без username имя берётся из заголовка.
	params = svc.BuildNewSiteParams(&SiteParamsInput{
		Session:  sess,
		FlowName: engine.FlowOnboarding,
	})
	if params.BlogName != "My Travel Blog" {
		t.Errorf("expected site title as blog_name, got %q", params.BlogName)
	}
}

func TestBuildNewSiteParams_ExplicitURL(t *testing.T) {
	svc, _ := newTestService(&fakeClient{})

	// onboarding-new не пропускает шаг домена: явный URL сохраняется.
	sess := domain.NewSignupSession(engine.FlowOnboardingNew)

	params := svc.BuildNewSiteParams(&SiteParamsInput{
		Session:                sess,
		FlowName:               engine.FlowOnboardingNew,
		SiteURL:                "chosen.com",
		IsPurchasingDomainItem: true,
	})
	if params.BlogName != "chosen.com" {
		t.Errorf("expected explicit url as blog_name, got %q", params.BlogName)
	}
	if !params.FindAvailableURL {
		t.Error("find_available_url should follow the domain purchase flag")
	}

	params = svc.BuildNewSiteParams(&SiteParamsInput{
		Session:  sess,
		FlowName: engine.FlowOnboardingNew,
		SiteURL:  "chosen.com",
	})
	if params.FindAvailableURL {
		t.Error("find_available_url must be off without a domain purchase")
	}
}

func TestBuildNewSiteParams_HiddenDomainStep(t *testing.T) {
	svc, _ := newTestService(&fakeClient{})

	// plan-first прячет шаг домена: без URL имя автогенерируется.
	sess := domain.NewSignupSession(engine.FlowOnboardingPlanFirst)
	sess.Provide(map[string]any{domain.DepUsername: "stored-user"})

	params := svc.BuildNewSiteParams(&SiteParamsInput{
		Session:  sess,
		FlowName: engine.FlowOnboardingPlanFirst,
	})
	if params.BlogName != "stored-user" || !params.FindAvailableURL {
		t.Errorf("expected auto-generated name for plan-first, got %q", params.BlogName)
	}

	// Флаг shouldHideFreePlan включает автогенерацию в любом flow.
	sess = domain.NewSignupSession(engine.FlowOnboardingNew)
	sess.Provide(map[string]any{
		domain.DepShouldHideFreePlan: true,
		domain.DepSiteType:           "business",
	})
	params = svc.BuildNewSiteParams(&SiteParamsInput{
		Session:  sess,
		FlowName: engine.FlowOnboardingNew,
	})
	if params.BlogName != "business" || !params.FindAvailableURL {
		t.Errorf("expected auto-generated name for shouldHideFreePlan, got %q", params.BlogName)
	}
}

func TestBuildNewSiteParams_ThemeAndSegment(t *testing.T) {
	svc, _ := newTestService(&fakeClient{})

	sess := domain.NewSignupSession(engine.FlowOnboarding)
	sess.Provide(map[string]any{
		domain.DepSiteType:  "online-store",
		domain.DepSiteTopic: "fashion",
	})

	params := svc.BuildNewSiteParams(&SiteParamsInput{
		Session:  sess,
		FlowName: engine.FlowOnboarding,
	})

	// Тема по умолчанию приходит из таблицы типов сайта.
	if params.Options.Theme != "pub/dara" {
		t.Errorf("expected site type theme, got %q", params.Options.Theme)
	}
	if params.Options.SiteSegment != 4 {
		t.Errorf("expected segment 4, got %d", params.Options.SiteSegment)
	}
	if params.Options.SiteVerticalName != "fashion" {
		t.Errorf("expected vertical name, got %q", params.Options.SiteVerticalName)
	}
	if params.Options.SiteCreationFlow != engine.FlowOnboarding {
		t.Errorf("unexpected site_creation_flow: %q", params.Options.SiteCreationFlow)
	}
	if !params.Options.DefaultAnnotationAsPrimaryFallback {
		t.Error("default annotation fallback must be on")
	}

	// Явная тема из данных шага имеет приоритет.
	params = svc.BuildNewSiteParams(&SiteParamsInput{
		Session:           sess,
		FlowName:          engine.FlowOnboarding,
		ThemeSlugWithRepo: "pub/custom",
	})
	if params.Options.Theme != "pub/custom" {
		t.Errorf("step theme must win, got %q", params.Options.Theme)
	}
}

func TestBuildNewSiteParams_ImportFlow(t *testing.T) {
	svc, _ := newTestService(&fakeClient{})

	sess := domain.NewSignupSession(engine.FlowImport)
	sess.Provide(map[string]any{
		depImportSiteEngine: "wordpress",
		depImportSiteURL:    "https://old.example.com",
	})

	params := svc.BuildNewSiteParams(&SiteParamsInput{
		Session:       sess,
		LastKnownFlow: engine.FlowImport,
		SiteURL:       "imported.com",
	})

	// Пока import не определил заголовок, его заменяет URL источника.
	if params.BlogTitle != "imported.com" {
		t.Errorf("expected site url as title fallback, got %q", params.BlogTitle)
	}
	if params.Options.NuxImportEngine != "wordpress" {
		t.Errorf("unexpected import engine: %q", params.Options.NuxImportEngine)
	}
	if params.Options.NuxImportFromURL != "https://old.example.com" {
		t.Errorf("unexpected import url: %q", params.Options.NuxImportFromURL)
	}
}
