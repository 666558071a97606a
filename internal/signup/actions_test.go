package signup

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/engine"
	"github.com/shaiso/Concierge/internal/wpcom"
)

func newTestService(client *fakeClient) (*Service, *fakeFallback) {
	fallback := &fakeFallback{}
	svc := New(Config{
		Client:            client,
		Fallback:          fallback,
		SitesPollInterval: time.Millisecond,
		Products: map[string]domain.Product{
			"domain_reg": {
				ProductSlug: "domain_reg",
				IsPrivacyProtectionProductPurchaseAllowed: true,
			},
		},
	})
	return svc, fallback
}

func TestCreateSiteOrDomain_DomainOnly(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newTestService(client)

	sess := domain.NewSignupSession(engine.FlowDomain)
	sess.Provide(map[string]any{
		depDesignType:        domain.DesignTypeDomain,
		domain.DepDomainItem: &domain.CartItem{ProductSlug: "domain_reg", Meta: "a.com"},
	})

	provided, err := svc.CreateSiteOrDomain(context.Background(), sess, &SiteData{})
	if err != nil {
		t.Fatal(err)
	}

	// Покупка домена без сайта: sites/new не вызывается вовсе.
	if client.called("SitesNew") {
		t.Error("domain-only purchase must not create a site")
	}
	if client.createCartKey != domain.CartKeyNoSite {
		t.Errorf("expected cart key %q, got %q", domain.CartKeyNoSite, client.createCartKey)
	}
	if len(client.createCartItems) != 1 || client.createCartItems[0].Meta != "a.com" {
		t.Fatalf("unexpected cart items: %+v", client.createCartItems)
	}
	// domain_reg поддерживает privacy protection: флаг проставлен.
	if p := client.createCartItems[0].Extra.Privacy; p == nil || !*p {
		t.Error("privacy protection should be applied to the domain item")
	}

	if provided[domain.DepSiteSlug] != domain.CartKeyNoSite {
		t.Errorf("expected siteSlug %q, got %v", domain.CartKeyNoSite, provided[domain.DepSiteSlug])
	}
	if provided[domain.DepSiteID] != nil {
		t.Errorf("expected nil siteId, got %v", provided[domain.DepSiteID])
	}
}

func TestCreateSiteOrDomain_ExistingSite(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newTestService(client)

	sess := domain.NewSignupSession(engine.FlowOnboarding)
	sess.Provide(map[string]any{
		depDesignType:        domain.DesignTypeExistingSite,
		domain.DepCartItem:   &domain.CartItem{ProductSlug: "value_bundle"},
		domain.DepDomainItem: nil, // пропущенный шаг домена
	})

	provided, err := svc.CreateSiteOrDomain(context.Background(), sess, &SiteData{
		SiteID:   77,
		SiteSlug: "existing.wordpress.com",
	})
	if err != nil {
		t.Fatal(err)
	}

	if client.called("SitesNew") {
		t.Error("existing site must not be re-created")
	}
	if client.createCartKey != "77" {
		t.Errorf("expected cart key 77, got %q", client.createCartKey)
	}
	// nil-зависимости отфильтрованы: в корзине только план.
	if len(client.createCartItems) != 1 || client.createCartItems[0].ProductSlug != "value_bundle" {
		t.Fatalf("unexpected cart items: %+v", client.createCartItems)
	}
	if provided[domain.DepSiteID] != 77 || provided[domain.DepSiteSlug] != "existing.wordpress.com" {
		t.Errorf("unexpected provided dependencies: %v", provided)
	}
}

func TestCreateSiteWithCart_DeferredWithoutToken(t *testing.T) {
	client := &fakeClient{}
	svc, fallback := newTestService(client)

	sess := domain.NewSignupSession(engine.FlowOnboardingNew)
	sess.Provide(map[string]any{
		domain.DepCartItem: &domain.CartItem{ProductSlug: "personal-bundle"},
	})

	domainItem := &domain.CartItem{ProductSlug: "domain_reg", Meta: "a.com"}
	provided, err := svc.CreateSiteWithCart(context.Background(), sess, &SiteCartData{
		FlowName:   engine.FlowOnboardingNew,
		DomainItem: domainItem,
		SiteURL:    "a.com",
		Public:     1,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Без bearer-токена сеть не трогается.
	if len(client.calls) != 0 {
		t.Errorf("expected no API calls, got %v", client.calls)
	}
	if len(fallback.savedCart) != 2 {
		t.Fatalf("expected 2 pending cart items, got %d", len(fallback.savedCart))
	}
	if p := fallback.savedCart[1].Extra.Privacy; p == nil || !*p {
		t.Error("privacy protection should be applied to the pending domain item")
	}
	if fallback.savedParams == nil || fallback.savedParams.BlogName != "a.com" {
		t.Errorf("unexpected saved site params: %+v", fallback.savedParams)
	}
	if provided[domain.DepSiteSlug] != domain.CartKeyNoSite || provided[domain.DepSiteID] != nil {
		t.Errorf("unexpected provided dependencies: %v", provided)
	}
}

func TestCreateSiteWithCart_Authenticated(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newTestService(client)

	sess := domain.NewSignupSession(engine.FlowOnboarding)
	sess.Provide(map[string]any{
		domain.DepBearerToken: "token-1",
	})

	domainItem := &domain.CartItem{ProductSlug: "domain_reg", Meta: "example.com"}
	provided, err := svc.CreateSiteWithCart(context.Background(), sess, &SiteCartData{
		FlowName:         engine.FlowOnboarding,
		DomainItem:       domainItem,
		IsPurchasingItem: true,
		SiteURL:          "example.com",
		Public:           1,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !client.called("SitesNew") {
		t.Fatal("expected a sites/new call")
	}
	if client.sitesNewParams.BlogName != "example.com" {
		t.Errorf("expected blog_name example.com, got %q", client.sitesNewParams.BlogName)
	}
	if !client.sitesNewParams.FindAvailableURL {
		t.Error("find_available_url should be set when purchasing a domain")
	}
	if provided[domain.DepSiteSlug] != "example.wordpress.com" {
		t.Errorf("expected slug from blog_details.url, got %v", provided[domain.DepSiteSlug])
	}
	if provided[domain.DepSiteID] != 123 {
		t.Errorf("expected siteId 123, got %v", provided[domain.DepSiteID])
	}
	if client.addToCartKey != "example.wordpress.com" {
		t.Errorf("expected add-to-cart on the new site, got %q", client.addToCartKey)
	}
	if len(client.addToCartItems) != 1 || client.addToCartItems[0].Meta != "example.com" {
		t.Fatalf("unexpected cart items: %+v", client.addToCartItems)
	}
}

func TestProcessItemCart_DecisionTable(t *testing.T) {
	item := &domain.CartItem{ProductSlug: "premium_theme"}

	cases := []struct {
		name      string
		auth      bool
		freeTheme bool
		want      []string
	}{
		{"unauthenticated free theme", false, true, []string{"ChangeTheme", "AddToCart"}},
		{"authenticated free theme", true, true, []string{"Sites", "Me", "ChangeTheme", "AddToCart"}},
		{"authenticated", true, false, []string{"Sites", "Me", "AddToCart"}},
		{"unauthenticated", false, false, []string{"AddToCart"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{
				sites: []wpcom.Site{{ID: 1, Slug: "s.wordpress.com"}},
			}
			svc, _ := newTestService(client)

			_, err := svc.ProcessItemCart(
				context.Background(), map[string]any{},
				[]*domain.CartItem{item},
				tc.auth, "s.wordpress.com", tc.freeTheme, "pub/twentytwenty",
			)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(client.calls, ",") != strings.Join(tc.want, ",") {
				t.Errorf("expected calls %v, got %v", tc.want, client.calls)
			}
		})
	}
}

func TestProcessItemCart_EmptyItems(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newTestService(client)

	provided := map[string]any{domain.DepSiteSlug: "s.wordpress.com"}
	got, err := svc.ProcessItemCart(
		context.Background(), provided, []*domain.CartItem{nil, nil},
		false, "s.wordpress.com", false, "",
	)
	if err != nil {
		t.Fatal(err)
	}
	// Пустая корзина — no-op: ни одного сетевого вызова.
	if len(client.calls) != 0 {
		t.Errorf("expected no API calls, got %v", client.calls)
	}
	if got[domain.DepSiteSlug] != "s.wordpress.com" {
		t.Errorf("provided dependencies must pass through, got %v", got)
	}
}

func TestSetThemeOnSite(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newTestService(client)

	if err := svc.SetThemeOnSite(context.Background(), "s.wordpress.com", ""); err != nil {
		t.Fatal(err)
	}
	if len(client.calls) != 0 {
		t.Error("empty theme slug must be a no-op")
	}

	if err := svc.SetThemeOnSite(context.Background(), "s.wordpress.com", "pub/dara"); err != nil {
		t.Fatal(err)
	}
	if client.changeThemeName != "dara" {
		t.Errorf("expected theme name without repo prefix, got %q", client.changeThemeName)
	}
}

func TestAddPlanToCart_FreePlan(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newTestService(client)
	sess := domain.NewSignupSession(engine.FlowOnboarding)

	provided, err := svc.AddPlanToCart(context.Background(), sess, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(client.calls) != 0 {
		t.Errorf("free plan must not touch the cart, got calls %v", client.calls)
	}
	if len(provided) != 0 {
		t.Errorf("free plan provides no dependencies, got %v", provided)
	}
}
