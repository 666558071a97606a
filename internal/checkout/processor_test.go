package checkout

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/wpcom"
)

// fakeGateway записывает параметры отправленных транзакций.
type fakeGateway struct {
	params       *wpcom.TransactionParams
	paypalParams *wpcom.TransactionParams
	result       *domain.TransactionResult
	err          error
}

var _ wpcom.Client = (*fakeGateway)(nil)

func (f *fakeGateway) Transactions(_ context.Context, params *wpcom.TransactionParams) (*domain.TransactionResult, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &domain.TransactionResult{ReceiptID: 555}, nil
}

func (f *fakeGateway) PayPalExpressURL(_ context.Context, params *wpcom.TransactionParams) (*domain.TransactionResult, error) {
	f.paypalParams = params
	return &domain.TransactionResult{RedirectURL: "https://paypal.example/checkout"}, nil
}

func (f *fakeGateway) SitesNew(context.Context, *domain.NewSiteParams) (*wpcom.NewSiteResponse, error) {
	return nil, nil
}
func (f *fakeGateway) CreateCart(context.Context, string, []domain.CartItem) error { return nil }
func (f *fakeGateway) AddToCart(context.Context, string, []domain.CartItem) error  { return nil }
func (f *fakeGateway) UsersNew(context.Context, *wpcom.NewUserParams) (*wpcom.NewUserResponse, error) {
	return nil, nil
}
func (f *fakeGateway) UsersSocialNew(context.Context, *wpcom.NewSocialUserParams) (*wpcom.NewUserResponse, error) {
	return nil, nil
}
func (f *fakeGateway) ChangeTheme(context.Context, string, string) error { return nil }
func (f *fakeGateway) LaunchSite(context.Context, string) error          { return nil }
func (f *fakeGateway) Sites(context.Context) ([]wpcom.Site, error)       { return nil, nil }
func (f *fakeGateway) Products(context.Context) (map[string]domain.Product, error) {
	return nil, nil
}
func (f *fakeGateway) Me(context.Context) (*wpcom.User, error)           { return nil, nil }
func (f *fakeGateway) MediaList(context.Context, int, url.Values) (*wpcom.MediaListResponse, error) {
	return nil, nil
}
func (f *fakeGateway) MediaAdd(context.Context, int, *wpcom.MediaItem) (*wpcom.MediaListResponse, error) {
	return nil, nil
}
func (f *fakeGateway) UploadExternalMedia(context.Context, int, string, []string) (*wpcom.MediaListResponse, error) {
	return nil, nil
}

// fakeTokenizer возвращает фиксированный токен.
type fakeTokenizer struct {
	country, postalCode string
}

func (f *fakeTokenizer) CreatePaymentMethodToken(_ context.Context, _, country, postalCode string) (string, error) {
	f.country = country
	f.postalCode = postalCode
	return "tok_123", nil
}

func newTestProcessor(gw *fakeGateway) *Processor {
	return NewProcessor(ProcessorConfig{
		Client: gw,
		Data: &StaticData{
			Contact: ContactInfo{CountryCode: "DE", PostalCode: "10115", State: "BE"},
			Site:    42,
			Domain:  &domain.DomainDetails{FirstName: "Ada", CountryCode: "DE"},
		},
		Tokenizer: &fakeTokenizer{},
	})
}

func TestSubmit_FreePurchaseAndCreditsSuppressTax(t *testing.T) {
	for _, method := range []domain.PaymentMethod{
		domain.PaymentMethodFreePurchase,
		domain.PaymentMethodFullCredits,
	} {
		t.Run(string(method), func(t *testing.T) {
			gw := &fakeGateway{}
			p := newTestProcessor(gw)

			_, err := p.Submit(context.Background(), &SubmitRequest{Method: method})
			if err != nil {
				t.Fatal(err)
			}

			// Страна и индекс обнуляются, даже когда в хранилище
			// есть значения.
			if gw.params.Country != nil || gw.params.PostalCode != nil {
				t.Errorf("country/postal must be nil, got %v/%v", gw.params.Country, gw.params.PostalCode)
			}
			if gw.params.SubdivisionCode != "" {
				t.Errorf("subdivision must be empty, got %q", gw.params.SubdivisionCode)
			}
			if gw.params.SiteID != 42 {
				t.Errorf("site id must still be attached, got %d", gw.params.SiteID)
			}
		})
	}
}

func TestSubmit_WalletOmitsSubdivision(t *testing.T) {
	gw := &fakeGateway{}
	p := newTestProcessor(gw)

	_, err := p.Submit(context.Background(), &SubmitRequest{
		Method:      domain.PaymentMethodWallet,
		WalletToken: "wallet-token",
	})
	if err != nil {
		t.Fatal(err)
	}

	if gw.params.SubdivisionCode != "" {
		t.Errorf("wallet must not send subdivision, got %q", gw.params.SubdivisionCode)
	}
	if gw.params.Country == nil || *gw.params.Country != "DE" {
		t.Errorf("wallet keeps country, got %v", gw.params.Country)
	}
	if gw.params.WalletToken != "wallet-token" {
		t.Errorf("unexpected wallet token: %q", gw.params.WalletToken)
	}
}

func TestSubmit_StripeCard(t *testing.T) {
	gw := &fakeGateway{}
	tok := &fakeTokenizer{}
	p := NewProcessor(ProcessorConfig{
		Client: gw,
		Data: &StaticData{
			Contact: ContactInfo{CountryCode: "US", PostalCode: "94110", State: "CA"},
		},
		Tokenizer: tok,
	})

	_, err := p.Submit(context.Background(), &SubmitRequest{
		Method:         domain.PaymentMethodCard,
		PaymentPartner: domain.CardPartnerStripe,
		CardholderName: "Ada Lovelace",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Токенизация получает адрес из хранилища.
	if tok.country != "US" || tok.postalCode != "94110" {
		t.Errorf("tokenizer address mismatch: %s/%s", tok.country, tok.postalCode)
	}
	if gw.params.PaymentMethodToken != "tok_123" {
		t.Errorf("unexpected payment token: %q", gw.params.PaymentMethodToken)
	}
	if gw.params.CardholderName != "Ada Lovelace" {
		t.Errorf("unexpected cardholder: %q", gw.params.CardholderName)
	}
}

func TestSubmit_UnrecognizedPartner(t *testing.T) {
	p := newTestProcessor(&fakeGateway{})

	_, err := p.Submit(context.Background(), &SubmitRequest{
		Method:         domain.PaymentMethodCard,
		PaymentPartner: "unknown",
	})
	if !errors.Is(err, ErrUnknownPaymentPartner) {
		t.Fatalf("expected ErrUnknownPaymentPartner, got %v", err)
	}
}

func TestSubmit_UnimplementedPartners(t *testing.T) {
	for _, partner := range []domain.CardPartner{domain.CardPartnerEbanx, domain.CardPartnerDlocal} {
		p := newTestProcessor(&fakeGateway{})
		_, err := p.Submit(context.Background(), &SubmitRequest{
			Method:         domain.PaymentMethodCard,
			PaymentPartner: partner,
		})
		if !errors.Is(err, ErrNotImplemented) {
			t.Errorf("%s: expected ErrNotImplemented, got %v", partner, err)
		}
	}
}

func TestSubmit_GenericRedirectURLs(t *testing.T) {
	gw := &fakeGateway{}
	p := newTestProcessor(gw)

	_, err := p.Submit(context.Background(), &SubmitRequest{
		Method:       domain.PaymentMethodGenericRedirect,
		GatewayID:    "ideal",
		PageURL:      "https://example.com:8443/checkout/foo?step=2",
		ThankYouPath: "/checkout/thank-you/mysite.wordpress.com",
		SiteSlug:     "mysite.wordpress.com",
	})
	if err != nil {
		t.Fatal(err)
	}

	if gw.params.PaymentMethod != "ideal" {
		t.Errorf("generic redirect must use the gateway id, got %q", gw.params.PaymentMethod)
	}

	success, err := url.Parse(gw.params.SuccessURL)
	if err != nil {
		t.Fatal(err)
	}
	if success.Scheme != "https" || success.Host != "example.com:8443" {
		t.Errorf("success url must reuse the page origin, got %q", gw.params.SuccessURL)
	}
	if success.Path != "/checkout/thank-you/mysite.wordpress.com/pending" {
		t.Errorf("unexpected success path: %q", success.Path)
	}
	redirectTo := success.Query().Get("redirectTo")
	if redirectTo != "https://example.com:8443/checkout/thank-you/mysite.wordpress.com" {
		t.Errorf("unexpected redirectTo: %q", redirectTo)
	}

	cancel, err := url.Parse(gw.params.CancelURL)
	if err != nil {
		t.Fatal(err)
	}
	if cancel.Scheme != "https" || cancel.Host != "example.com:8443" || cancel.Path != "/checkout/foo" {
		t.Errorf("cancel url must preserve origin and path, got %q", gw.params.CancelURL)
	}
	if cancel.RawQuery != "" {
		t.Errorf("cancel query must be empty without white-glove, got %q", cancel.RawQuery)
	}
}

func TestSubmit_WhiteGloveCancelMarker(t *testing.T) {
	gw := &fakeGateway{}
	p := newTestProcessor(gw)

	_, err := p.Submit(context.Background(), &SubmitRequest{
		Method:       domain.PaymentMethodGenericRedirect,
		GatewayID:    "sofort",
		PageURL:      "https://example.com/checkout/foo",
		ThankYouPath: "/checkout/thank-you/s",
		WhiteGlove:   true,
	})
	if err != nil {
		t.Fatal(err)
	}

	cancel, _ := url.Parse(gw.params.CancelURL)
	if cancel.Query().Get("type") != "white-glove" {
		t.Errorf("expected white-glove marker in %q", gw.params.CancelURL)
	}
	// Без сайта success ведёт на сентинельный slug.
	if !strings.Contains(gw.params.SuccessURL, "/checkout/thank-you/no-site/pending") {
		t.Errorf("expected no-site sentinel in %q", gw.params.SuccessURL)
	}
}

func TestSubmit_PayPalExpress(t *testing.T) {
	gw := &fakeGateway{}
	p := newTestProcessor(gw)

	result, err := p.Submit(context.Background(), &SubmitRequest{
		Method:       domain.PaymentMethodPayPalExpress,
		PageURL:      "https://example.com/checkout/foo",
		ThankYouPath: "/checkout/thank-you/s",
		CouponCode:   "SAVE20",
	})
	if err != nil {
		t.Fatal(err)
	}

	if gw.paypalParams == nil {
		t.Fatal("expected a paypal-express request")
	}
	if gw.paypalParams.CouponID != "SAVE20" {
		t.Errorf("unexpected coupon: %q", gw.paypalParams.CouponID)
	}
	if gw.paypalParams.SuccessURL != "https://example.com/checkout/thank-you/s" {
		t.Errorf("unexpected success url: %q", gw.paypalParams.SuccessURL)
	}
	if result.RedirectURL == "" {
		t.Error("paypal result must carry a redirect url")
	}
}

func TestSubmit_CommitsResultToSlot(t *testing.T) {
	gw := &fakeGateway{result: &domain.TransactionResult{ReceiptID: 777}}
	p := newTestProcessor(gw)

	if _, ok := p.Slot().Latest(); ok {
		t.Fatal("slot must start empty")
	}

	if _, err := p.Submit(context.Background(), &SubmitRequest{
		Method: domain.PaymentMethodFreePurchase,
	}); err != nil {
		t.Fatal(err)
	}

	latest, ok := p.Slot().Latest()
	if !ok || latest.ReceiptID != 777 {
		t.Errorf("expected receipt 777 in the slot, got %v (ok=%v)", latest, ok)
	}
}

func TestSubmit_FailedSubmissionDoesNotCommit(t *testing.T) {
	gw := &fakeGateway{err: errors.New("declined")}
	p := newTestProcessor(gw)

	if _, err := p.Submit(context.Background(), &SubmitRequest{
		Method: domain.PaymentMethodFullCredits,
	}); err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := p.Slot().Latest(); ok {
		t.Error("failed submission must not commit a result")
	}
}

func TestResponseSlot_LastSubmissionWins(t *testing.T) {
	slot := &ResponseSlot{}

	first := slot.Issue()
	second := slot.Issue()

	// Более новая отправка фиксируется.
	if !slot.Commit(second, &domain.TransactionResult{ReceiptID: 2}) {
		t.Fatal("latest submission must commit")
	}
	// Опоздавший результат первой отправки отбрасывается.
	if slot.Commit(first, &domain.TransactionResult{ReceiptID: 1}) {
		t.Fatal("stale submission must not commit")
	}

	latest, ok := slot.Latest()
	if !ok || latest.ReceiptID != 2 {
		t.Errorf("expected receipt 2, got %v", latest)
	}

	slot.Clear()
	if _, ok := slot.Latest(); ok {
		t.Error("slot must be empty after Clear")
	}
}
