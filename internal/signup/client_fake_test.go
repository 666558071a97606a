package signup

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/wpcom"
)

// fakeClient записывает вызовы API и отдаёт подготовленные ответы.
type fakeClient struct {
	calls []string

	sitesNewParams *domain.NewSiteParams
	sitesNewResp   *wpcom.NewSiteResponse
	sitesNewErr    error

	createCartKey   string
	createCartItems []domain.CartItem
	createCartErr   error

	addToCartKey   string
	addToCartItems []domain.CartItem
	addToCartErr   error

	usersNewParams *wpcom.NewUserParams
	socialParams   *wpcom.NewSocialUserParams
	usersResp      *wpcom.NewUserResponse
	usersErr       error

	changeThemeSlug string
	changeThemeName string

	sites    []wpcom.Site
	products map[string]domain.Product
}

var _ wpcom.Client = (*fakeClient)(nil)

func (f *fakeClient) SitesNew(_ context.Context, params *domain.NewSiteParams) (*wpcom.NewSiteResponse, error) {
	f.calls = append(f.calls, "SitesNew")
	f.sitesNewParams = params
	if f.sitesNewErr != nil {
		return nil, f.sitesNewErr
	}
	if f.sitesNewResp != nil {
		return f.sitesNewResp, nil
	}
	return &wpcom.NewSiteResponse{
		Success: true,
		BlogDetails: wpcom.NewSiteDetails{
			URL:    "https://example.wordpress.com",
			BlogID: 123,
		},
	}, nil
}

func (f *fakeClient) CreateCart(_ context.Context, cartKey string, items []domain.CartItem) error {
	f.calls = append(f.calls, "CreateCart")
	f.createCartKey = cartKey
	f.createCartItems = items
	return f.createCartErr
}

func (f *fakeClient) AddToCart(_ context.Context, cartKey string, items []domain.CartItem) error {
	f.calls = append(f.calls, "AddToCart")
	f.addToCartKey = cartKey
	f.addToCartItems = items
	return f.addToCartErr
}

func (f *fakeClient) UsersNew(_ context.Context, params *wpcom.NewUserParams) (*wpcom.NewUserResponse, error) {
	f.calls = append(f.calls, "UsersNew")
	f.usersNewParams = params
	return f.usersResp, f.usersErr
}

func (f *fakeClient) UsersSocialNew(_ context.Context, params *wpcom.NewSocialUserParams) (*wpcom.NewUserResponse, error) {
	f.calls = append(f.calls, "UsersSocialNew")
	f.socialParams = params
	return f.usersResp, f.usersErr
}

func (f *fakeClient) ChangeTheme(_ context.Context, siteSlug, theme string) error {
	f.calls = append(f.calls, "ChangeTheme")
	f.changeThemeSlug = siteSlug
	f.changeThemeName = theme
	return nil
}

func (f *fakeClient) LaunchSite(_ context.Context, siteSlug string) error {
	f.calls = append(f.calls, "LaunchSite")
	return nil
}

func (f *fakeClient) Sites(_ context.Context) ([]wpcom.Site, error) {
	f.calls = append(f.calls, "Sites")
	return f.sites, nil
}

func (f *fakeClient) Products(_ context.Context) (map[string]domain.Product, error) {
	f.calls = append(f.calls, "Products")
	return f.products, nil
}

func (f *fakeClient) Me(_ context.Context) (*wpcom.User, error) {
	f.calls = append(f.calls, "Me")
	return &wpcom.User{ID: 1, Username: "tester"}, nil
}

func (f *fakeClient) Transactions(_ context.Context, _ *wpcom.TransactionParams) (*domain.TransactionResult, error) {
	f.calls = append(f.calls, "Transactions")
	return &domain.TransactionResult{}, nil
}

func (f *fakeClient) PayPalExpressURL(_ context.Context, _ *wpcom.TransactionParams) (*domain.TransactionResult, error) {
	f.calls = append(f.calls, "PayPalExpressURL")
	return &domain.TransactionResult{}, nil
}

func (f *fakeClient) MediaList(_ context.Context, _ int, _ url.Values) (*wpcom.MediaListResponse, error) {
	f.calls = append(f.calls, "MediaList")
	return &wpcom.MediaListResponse{}, nil
}

func (f *fakeClient) MediaAdd(_ context.Context, _ int, _ *wpcom.MediaItem) (*wpcom.MediaListResponse, error) {
	f.calls = append(f.calls, "MediaAdd")
	return &wpcom.MediaListResponse{}, nil
}

func (f *fakeClient) UploadExternalMedia(_ context.Context, _ int, _ string, _ []string) (*wpcom.MediaListResponse, error) {
	f.calls = append(f.calls, "UploadExternalMedia")
	return &wpcom.MediaListResponse{}, nil
}

func (f *fakeClient) called(name string) bool {
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

// fakeFallback — фиксирующее fallback-хранилище.
type fakeFallback struct {
	savedCart   []domain.CartItem
	savedParams *domain.NewSiteParams
}

func (f *fakeFallback) SaveShoppingCart(_ context.Context, _ uuid.UUID, items []domain.CartItem) error {
	f.savedCart = items
	return nil
}

func (f *fakeFallback) SaveSiteParams(_ context.Context, _ uuid.UUID, params *domain.NewSiteParams) error {
	f.savedParams = params
	return nil
}
