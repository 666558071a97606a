package signup

import (
	"context"
	"strings"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/engine"
	"github.com/shaiso/Concierge/internal/telemetry"
	"github.com/shaiso/Concierge/internal/wpcom"
)

// Типы регистрации для события telemetry.EventRegistration.
const (
	signupTypeDefault = "default"
	signupTypeSocial  = "social"
)

// Ключи dependency store, производимые созданием аккаунта.
const (
	depOAuth2ClientID = "oauth2_client_id"
	depOAuth2Redirect = "oauth2_redirect"
)

// AccountData — вход шага создания аккаунта.
type AccountData struct {
	// Данные пользователя.
	Username string
	Email    string
	Password string
	UserID   int

	// FlowName / LastKnownFlow — flow шага.
	FlowName      string
	LastKnownFlow string

	// Социальная регистрация: Service непустой включает путь
	// users/social/new.
	Service     string
	AccessToken string
	IDToken     string

	// OAuth2Signup — регистрация инициирована сторонним OAuth2-клиентом.
	OAuth2Signup   bool
	OAuth2ClientID string
	OAuth2Redirect string

	// JetpackRedirect — URL в письме подтверждения.
	JetpackRedirect string
}

// CreateAccount выполняет шаг создания аккаунта.
//
// В purchase-first flow с покупкой в корзине аккаунт не создаётся:
// регистрация откладывается до завершения оплаты, шаг производит
// только флаг allowUnauthenticated.
func (s *Service) CreateAccount(ctx context.Context, sess *domain.SignupSession, data *AccountData) (map[string]any, error) {
	flowToCheck := data.FlowName
	if flowToCheck == "" {
		flowToCheck = data.LastKnownFlow
	}

	if flowToCheck == engine.FlowOnboardingNew {
		cartItem := cartItemDependency(sess, domain.DepCartItem)
		domainItem := cartItemDependency(sess, domain.DepDomainItem)
		if cartItem != nil || domainItem != nil {
			return map[string]any{domain.DepAllowUnauthenticated: true}, nil
		}
	}

	// Legacy-имя p2 переписывается на преемника до любых вызовов.
	flowName := data.FlowName
	if flowName == engine.FlowP2 {
		flowName = engine.FlowWPForTeams
	}

	if data.Service != "" {
		resp, err := s.client.UsersSocialNew(ctx, &wpcom.NewSocialUserParams{
			Service:        data.Service,
			AccessToken:    data.AccessToken,
			IDToken:        data.IDToken,
			SignupFlowName: flowName,
			Username:       data.Username,
			Email:          data.Email,
		})
		return s.accountCreated(ctx, sess, data, flowName, signupTypeSocial, resp, err)
	}

	params := &wpcom.NewUserParams{
		Username:            data.Username,
		Email:               data.Email,
		Password:            data.Password,
		Validate:            false,
		SignupFlowName:      flowName,
		NuxQSiteType:        sess.StringDependency(domain.DepSurveySiteType),
		NuxQQuestionPrimary: siteVertical(sess),
		JetpackRedirect:     data.JetpackRedirect,
	}
	if data.OAuth2Signup {
		params.OAuth2ClientID = data.OAuth2ClientID
		if data.OAuth2Redirect != "" {
			// Legacy-формат oauth2_redirect: "%s@<authorize-url>".
			params.OAuth2Redirect = "0@" + data.OAuth2Redirect
		}
	}

	resp, err := s.client.UsersNew(ctx, params)
	return s.accountCreated(ctx, sess, data, flowName, signupTypeDefault, resp, err)
}

// accountCreated нормализует результат регистрации в зависимости шага.
// Значения, подменённые signup-песочницей, предпочитаются отправленным.
func (s *Service) accountCreated(ctx context.Context, sess *domain.SignupSession, data *AccountData, flowName, signupType string, resp *wpcom.NewUserResponse, err error) (map[string]any, error) {
	if err != nil {
		return nil, normalizeError(err, signupType == signupTypeSocial)
	}

	username := firstNonEmpty(resp.SignupSandboxUsername, resp.Username, data.Username)
	userID := resp.SignupSandboxUserID
	if userID == 0 {
		userID = resp.UserID
	}
	if userID == 0 {
		userID = data.UserID
	}
	email := firstNonEmpty(resp.Email, data.Email)

	// Ответ без ошибки обязан нести bearer-токен; его отсутствие —
	// аномалия, но не отказ.
	if resp.BearerToken == "" {
		s.logger.Error("expected either an error or a bearer token",
			"session_id", sess.ID, "username", username)
	}

	s.recorder.Record(ctx, telemetry.Event{
		Name: telemetry.EventRegistration,
		Properties: map[string]any{
			"flow":     flowName,
			"type":     signupType,
			"user_id":  userID,
			"username": username,
			"email":    email,
		},
	})

	provided := map[string]any{
		domain.DepUsername:            username,
		domain.DepMarketingPriceGroup: resp.MarketingPriceGroup,
	}
	if resp.BearerToken != "" {
		provided[domain.DepBearerToken] = resp.BearerToken
	}

	if signupType == signupTypeDefault && data.OAuth2Signup {
		provided[depOAuth2ClientID] = data.OAuth2ClientID
		// Из legacy-формата "%s@<url>" наружу отдаётся только URL.
		if _, redirect, ok := strings.Cut(resp.OAuth2Redirect, "@"); ok {
			provided[depOAuth2Redirect] = redirect
		} else {
			provided[depOAuth2Redirect] = ""
		}
	}

	return provided, nil
}
