package signup

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shaiso/Concierge/internal/cart"
	"github.com/shaiso/Concierge/internal/domain"
)

// Ключи dependency store, производимые действиями этого файла.
const (
	depSiteURL     = "siteUrl"
	depPrivacyItem = "privacyItem"
)

// ErrNoFallbackStore — нет хранилища для неаутентифицированного пути
// создания сайта.
var ErrNoFallbackStore = errors.New("signup: fallback store is not configured")

// SiteData — данные шага для CreateSiteOrDomain.
type SiteData struct {
	// SiteID и SiteSlug — существующий сайт (designType "existing-site").
	SiteID   int
	SiteSlug string

	// Параметры создания нового сайта (default-ветка).
	FlowName      string
	LastKnownFlow string
	Public        int
	ComingSoon    bool
	InPageBuilder bool
	Username      string
	Timezone      string
}

// CreateSiteOrDomain выполняет шаг выбора домена. Поведение ветвится по
// designType из dependency store, три ветки взаимно исключают друг друга:
//
//   - "domain" — сайт не создаётся; корзина с единственным доменом
//     создаётся под сентинельным ключом "no-site";
//   - "existing-site" — наполняется корзина существующего сайта;
//   - default — создаётся новый сайт, затем корзина (CreateSiteWithCart).
func (s *Service) CreateSiteOrDomain(ctx context.Context, sess *domain.SignupSession, data *SiteData) (map[string]any, error) {
	designType := sess.StringDependency(depDesignType)
	siteURL := sess.StringDependency(depSiteURL)
	themeSlugWithRepo := sess.StringDependency(domain.DepThemeSlugWithRepo)
	cartItem := cartItemDependency(sess, domain.DepCartItem)

	var domainItem *domain.CartItem
	if item := cartItemDependency(sess, domain.DepDomainItem); item != nil {
		withPrivacy := cart.AddPrivacyProtectionIfSupported(*item, s.products)
		domainItem = &withPrivacy
	}

	switch designType {
	case domain.DesignTypeDomain:
		provided := map[string]any{
			domain.DepSiteID:            nil,
			domain.DepSiteSlug:          domain.CartKeyNoSite,
			domain.DepThemeSlugWithRepo: nil,
			domain.DepDomainItem:        domainItem,
		}
		if err := s.client.CreateCart(ctx, domain.CartKeyNoSite, itemValues(domainItem)); err != nil {
			return provided, normalizeError(err, false)
		}
		return provided, nil

	case domain.DesignTypeExistingSite:
		provided := map[string]any{
			domain.DepSiteID:   data.SiteID,
			domain.DepSiteSlug: data.SiteSlug,
		}
		items := itemValues(domainItem, cartItemDependency(sess, depPrivacyItem), cartItem)
		if err := s.client.CreateCart(ctx, strconv.Itoa(data.SiteID), items); err != nil {
			return provided, normalizeError(err, false)
		}
		return provided, nil

	default:
		provided, err := s.CreateSiteWithCart(ctx, sess, &SiteCartData{
			FlowName:          data.FlowName,
			LastKnownFlow:     data.LastKnownFlow,
			DomainItem:        domainItem,
			IsPurchasingItem:  true,
			SiteURL:           siteURL,
			ThemeSlugWithRepo: themeSlugWithRepo,
			Public:            data.Public,
			ComingSoon:        data.ComingSoon,
			InPageBuilder:     data.InPageBuilder,
			Username:          data.Username,
			Timezone:          data.Timezone,
		})
		if err != nil {
			return nil, err
		}
		// Нижестоящим шагам нужна только часть зависимостей.
		picked := make(map[string]any, 4)
		for _, key := range []string{
			domain.DepSiteID, domain.DepSiteSlug,
			domain.DepThemeSlugWithRepo, domain.DepDomainItem,
		} {
			if v, ok := provided[key]; ok {
				picked[key] = v
			}
		}
		return picked, nil
	}
}

// SiteCartData — данные шага для CreateSiteWithCart.
type SiteCartData struct {
	// FlowName передаётся не всегда; LastKnownFlow — запасной вариант.
	FlowName      string
	LastKnownFlow string

	// Позиции, собранные предыдущими шагами.
	DomainItem         *domain.CartItem
	GoogleAppsCartItem *domain.CartItem
	ThemeItem          *domain.CartItem

	// IsPurchasingItem — вместе с сайтом покупается домен.
	IsPurchasingItem bool

	SiteURL           string
	ThemeSlugWithRepo string

	Public        int
	ComingSoon    bool
	InPageBuilder bool
	Username      string
	Timezone      string
}

// CreateSiteWithCart создаёт новый сайт и наполняет его корзину.
//
// Без bearer-токена (checkout до аутентификации) сетевой вызов не
// выполняется: корзина и параметры сайта сохраняются в fallback-
// хранилище, создание завершит следующий шаг после аутентификации.
func (s *Service) CreateSiteWithCart(ctx context.Context, sess *domain.SignupSession, data *SiteCartData) (map[string]any, error) {
	newCartItems := []*domain.CartItem{data.DomainItem, data.GoogleAppsCartItem, data.ThemeItem}

	isFreeThemePreselected := strings.HasPrefix(data.ThemeSlugWithRepo, "pub") && data.ThemeItem == nil

	params := s.BuildNewSiteParams(&SiteParamsInput{
		Session:                sess,
		FlowName:               data.FlowName,
		LastKnownFlow:          data.LastKnownFlow,
		SiteURL:                data.SiteURL,
		ThemeSlugWithRepo:      data.ThemeSlugWithRepo,
		IsPurchasingDomainItem: data.IsPurchasingItem,
		Username:               data.Username,
		Public:                 data.Public,
		ComingSoon:             data.ComingSoon,
		InPageBuilder:          data.InPageBuilder,
		Timezone:               data.Timezone,
	})

	if !authenticated(sess) {
		return s.saveForLaterAndProceed(ctx, sess, data.DomainItem, data.ThemeItem, params)
	}

	resp, err := s.client.SitesNew(ctx, params)
	if err != nil {
		return nil, normalizeError(err, false)
	}

	siteSlug, err := slugFromBlogURL(resp.BlogDetails.URL)
	if err != nil {
		return nil, fmt.Errorf("signup: parse blog url: %w", err)
	}

	provided := map[string]any{
		domain.DepSiteID:     resp.BlogDetails.BlogID,
		domain.DepSiteSlug:   siteSlug,
		domain.DepDomainItem: data.DomainItem,
		domain.DepThemeItem:  data.ThemeItem,
	}
	return s.ProcessItemCart(ctx, provided, newCartItems, authenticated(sess), siteSlug, isFreeThemePreselected, data.ThemeSlugWithRepo)
}

// saveForLaterAndProceed — fallback-путь CreateSiteWithCart: корзина и
// параметры сайта сохраняются под сессией, сеть не трогается.
func (s *Service) saveForLaterAndProceed(ctx context.Context, sess *domain.SignupSession, domainItem, themeItem *domain.CartItem, params *domain.NewSiteParams) (map[string]any, error) {
	if s.fallback == nil {
		return nil, ErrNoFallbackStore
	}

	pending := itemValues(cartItemDependency(sess, domain.DepCartItem), domainItem)
	for i := range pending {
		pending[i] = cart.AddPrivacyProtectionIfSupported(pending[i], s.products)
	}

	if err := s.fallback.SaveShoppingCart(ctx, sess.ID, pending); err != nil {
		return nil, err
	}
	if err := s.fallback.SaveSiteParams(ctx, sess.ID, params); err != nil {
		return nil, err
	}

	s.logger.Info("site creation deferred until authentication",
		"session_id", sess.ID, "pending_items", len(pending))

	return map[string]any{
		domain.DepDomainItem: domainItem,
		domain.DepThemeItem:  themeItem,
		domain.DepSiteID:     nil,
		domain.DepSiteSlug:   domain.CartKeyNoSite,
	}, nil
}

// ProcessItemCart добавляет позиции в корзину сайта, при необходимости
// предварительно установив тему и дождавшись появления сайта в списке
// пользователя. Пустой список позиций — no-op, не ошибка.
//
// Последовательность выбирается двумя независимыми признаками:
//
//	auth  freeTheme  действия
//	 нет     да      тема → корзина
//	 да      да      sites+user → тема → корзина
//	 да      нет     sites+user → корзина
//	 нет     нет     корзина
func (s *Service) ProcessItemCart(ctx context.Context, provided map[string]any, items []*domain.CartItem, auth bool, siteSlug string, freeThemePreselected bool, themeSlugWithRepo string) (map[string]any, error) {
	switch {
	case !auth && freeThemePreselected:
		if err := s.SetThemeOnSite(ctx, siteSlug, themeSlugWithRepo); err != nil {
			return provided, err
		}
	case auth && freeThemePreselected:
		if err := s.FetchSitesAndUser(ctx, siteSlug); err != nil {
			return provided, err
		}
		if err := s.SetThemeOnSite(ctx, siteSlug, themeSlugWithRepo); err != nil {
			return provided, err
		}
	case auth:
		if err := s.FetchSitesAndUser(ctx, siteSlug); err != nil {
			return provided, err
		}
	}

	toAdd := itemValues(items...)
	for i := range toAdd {
		toAdd[i] = cart.AddPrivacyProtectionIfSupported(toAdd[i], s.products)
	}
	if len(toAdd) == 0 {
		return provided, nil
	}

	if err := s.client.AddToCart(ctx, siteSlug, toAdd); err != nil {
		return provided, normalizeError(err, false)
	}
	return provided, nil
}

// SetThemeOnSite устанавливает тему на сайт. Пустой слаг — no-op.
func (s *Service) SetThemeOnSite(ctx context.Context, siteSlug, themeSlugWithRepo string) error {
	if themeSlugWithRepo == "" {
		return nil
	}
	theme := themeSlugWithRepo
	if i := strings.IndexByte(themeSlugWithRepo, '/'); i >= 0 {
		theme = themeSlugWithRepo[i+1:]
	}
	if err := s.client.ChangeTheme(ctx, siteSlug, theme); err != nil {
		return normalizeError(err, false)
	}
	return nil
}

// AddPlanToCart выполняет шаг выбора плана. nil-позиция означает
// бесплатный план: корзина не трогается.
func (s *Service) AddPlanToCart(ctx context.Context, sess *domain.SignupSession, cartItem *domain.CartItem) (map[string]any, error) {
	if cartItem == nil {
		return map[string]any{}, nil
	}
	provided := map[string]any{domain.DepCartItem: cartItem}
	siteSlug := sess.StringDependency(domain.DepSiteSlug)
	return s.ProcessItemCart(ctx, provided, []*domain.CartItem{cartItem}, authenticated(sess), siteSlug, false, "")
}

// AddDomainToCart выполняет шаг выбора домена для существующего сайта.
func (s *Service) AddDomainToCart(ctx context.Context, sess *domain.SignupSession, domainItem, googleAppsCartItem *domain.CartItem) (map[string]any, error) {
	provided := map[string]any{domain.DepDomainItem: domainItem}
	siteSlug := sess.StringDependency(domain.DepSiteSlug)
	items := []*domain.CartItem{domainItem, googleAppsCartItem}
	return s.ProcessItemCart(ctx, provided, items, authenticated(sess), siteSlug, false, "")
}

// LaunchSite публикует сайт.
func (s *Service) LaunchSite(ctx context.Context, sess *domain.SignupSession) error {
	siteSlug := sess.StringDependency(domain.DepSiteSlug)
	if err := s.client.LaunchSite(ctx, siteSlug); err != nil {
		return normalizeError(err, false)
	}
	return nil
}

// FetchSitesAndUser ждёт, пока новый сайт появится в списке сайтов
// пользователя, затем обновляет данные пользователя. Списки на стороне
// API обновляются с задержкой после sites/new.
func (s *Service) FetchSitesAndUser(ctx context.Context, siteSlug string) error {
	for attempt := 0; attempt < s.sitesPollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.sitesPollInterval):
			}
		}

		sites, err := s.client.Sites(ctx)
		if err != nil {
			return normalizeError(err, false)
		}
		for _, site := range sites {
			if site.Slug == siteSlug {
				if _, err := s.client.Me(ctx); err != nil {
					return normalizeError(err, false)
				}
				return nil
			}
		}
	}

	s.logger.Warn("site did not appear in the sites list", "site_slug", siteSlug)
	return nil
}

// CreateSite выполняет упрощённый шаг создания сайта (без корзины).
func (s *Service) CreateSite(ctx context.Context, sess *domain.SignupSession, site string, public int, comingSoon bool, timezone string) (map[string]any, error) {
	if timezone == "" {
		timezone = time.Local.String()
	}
	params := &domain.NewSiteParams{
		BlogName:  site,
		BlogTitle: "",
		Public:    public,
		Options: domain.NewSiteOptions{
			Theme:           sess.StringDependency(domain.DepThemeSlugWithRepo),
			TimezoneString:  timezone,
			WpcomComingSoon: comingSoon,
		},
		Validate: false,
	}
	return s.createBareSite(ctx, sess, params)
}

// CreateWPForTeamsSite создаёт сайт WP for Teams (p2) с фиксированной
// темой и приватной видимостью.
func (s *Service) CreateWPForTeamsSite(ctx context.Context, sess *domain.SignupSession, site, siteTitle, timezone string) (map[string]any, error) {
	if timezone == "" {
		timezone = time.Local.String()
	}
	params := &domain.NewSiteParams{
		BlogName:  site + ".p2.blog",
		BlogTitle: siteTitle,
		Public:    -1,
		Options: domain.NewSiteOptions{
			Theme:            "pub/p2020",
			TimezoneString:   timezone,
			IsWpForTeamsSite: true,
		},
		Validate: false,
	}
	return s.createBareSite(ctx, sess, params)
}

func (s *Service) createBareSite(ctx context.Context, sess *domain.SignupSession, params *domain.NewSiteParams) (map[string]any, error) {
	resp, err := s.client.SitesNew(ctx, params)
	if err != nil {
		return nil, normalizeError(err, false)
	}

	siteSlug, err := slugFromBlogURL(resp.BlogDetails.URL)
	if err != nil {
		return nil, fmt.Errorf("signup: parse blog url: %w", err)
	}
	provided := map[string]any{domain.DepSiteSlug: siteSlug}

	if authenticated(sess) {
		if err := s.FetchSitesAndUser(ctx, siteSlug); err != nil {
			return provided, err
		}
	}
	return provided, nil
}

// slugFromBlogURL возвращает slug сайта из URL ответа sites/new.
func slugFromBlogURL(blogURL string) (string, error) {
	u, err := url.Parse(blogURL)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("no hostname in %q", blogURL)
	}
	return u.Hostname(), nil
}

// itemValues возвращает значения ненулевых позиций.
func itemValues(items ...*domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}
