package checkout

import (
	"fmt"
	"net/url"

	"github.com/shaiso/Concierge/internal/domain"
)

// RedirectURLs — абсолютные URL-ы возврата для redirect-методов.
type RedirectURLs struct {
	Success string
	Cancel  string
}

// buildRedirectURLs строит URL-ы возврата, переиспользуя
// protocol/host/port текущей страницы и подменяя только путь и query.
//
// Success ведёт на pending-страницу "thank you" с конечным назначением
// в query-параметре redirectTo. Cancel сохраняет путь текущей страницы;
// для white-glove-предложения добавляется маркер type=white-glove.
func buildRedirectURLs(pageURL, siteSlug, thankYouPath string, whiteGlove bool) (*RedirectURLs, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("checkout: parse page url: %w", err)
	}
	if page.Host == "" {
		return nil, fmt.Errorf("checkout: page url %q has no host", pageURL)
	}

	if siteSlug == "" {
		siteSlug = domain.CartKeyNoSite
	}

	redirectTo := url.URL{
		Scheme: page.Scheme,
		Host:   page.Host,
		Path:   thankYouPath,
	}

	success := url.URL{
		Scheme:   page.Scheme,
		Host:     page.Host,
		Path:     "/checkout/thank-you/" + siteSlug + "/pending",
		RawQuery: url.Values{"redirectTo": {redirectTo.String()}}.Encode(),
	}

	cancel := url.URL{
		Scheme: page.Scheme,
		Host:   page.Host,
		Path:   page.Path,
	}
	if whiteGlove {
		cancel.RawQuery = url.Values{"type": {"white-glove"}}.Encode()
	}

	return &RedirectURLs{Success: success.String(), Cancel: cancel.String()}, nil
}

// buildReturnURLs — вариант для PayPal Express: success ведёт сразу на
// страницу "thank you", без pending-прослойки.
func buildReturnURLs(pageURL, thankYouPath string, whiteGlove bool) (*RedirectURLs, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("checkout: parse page url: %w", err)
	}
	if page.Host == "" {
		return nil, fmt.Errorf("checkout: page url %q has no host", pageURL)
	}

	success := url.URL{
		Scheme: page.Scheme,
		Host:   page.Host,
		Path:   thankYouPath,
	}

	cancel := url.URL{
		Scheme: page.Scheme,
		Host:   page.Host,
		Path:   page.Path,
	}
	if whiteGlove {
		cancel.RawQuery = url.Values{"type": {"white-glove"}}.Encode()
	}

	return &RedirectURLs{Success: success.String(), Cancel: cancel.String()}, nil
}
