package signup

import (
	"time"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/engine"
)

// Ключи dependency store, используемые только сборкой параметров сайта.
const (
	depDesignType       = "designType"
	depSiteTitle        = "siteTitle"
	depSiteVerticalID   = "siteVerticalId"
	depSiteGoals        = "siteGoals"
	depSiteStyle        = "siteStyle"
	depImportSiteEngine = "importSiteEngine"
	depImportSiteURL    = "importSiteUrl"
)

// SiteParamsInput — вход сборки параметров sites/new. Значения,
// собранные шагами, читаются из сессии; остальное передаёт вызывающая
// сторона.
type SiteParamsInput struct {
	Session *domain.SignupSession

	// FlowName / LastKnownFlow — flow, в рамках которого создаётся
	// сайт. FlowName передаётся не всегда.
	FlowName      string
	LastKnownFlow string

	// SiteURL — явный URL сайта из domain-first flow. Пустое значение
	// включает автогенерацию имени блога.
	SiteURL string

	// ThemeSlugWithRepo — тема из данных шага (может прийти из query).
	ThemeSlugWithRepo string

	// IsPurchasingDomainItem — вместе с сайтом покупается домен.
	IsPurchasingDomainItem bool

	// Username — имя уже аутентифицированного пользователя, если есть.
	Username string

	// Public — видимость сайта (1, 0 или -1).
	Public int

	// ComingSoon — создать сайт в режиме "coming soon".
	ComingSoon bool

	// InPageBuilder — сайт создаётся для page builder.
	InPageBuilder bool

	// Timezone — строка таймзоны (default: локальная таймзона процесса).
	Timezone string
}

// flowToCheck возвращает имя flow для проверок: FlowName передаётся
// не всеми вызывающими сторонами.
func (in *SiteParamsInput) flowToCheck() string {
	if in.FlowName != "" {
		return in.FlowName
	}
	return in.LastKnownFlow
}

// siteVertical возвращает вертикаль сайта: отдельный шаг вертикали
// имеет приоритет над ответом survey.
func siteVertical(sess *domain.SignupSession) string {
	if v := sess.StringDependency(domain.DepSiteTopic); v != "" {
		return v
	}
	return sess.StringDependency(domain.DepSurveyQuestion)
}

// BuildNewSiteParams собирает параметры sites/new.
//
// Имя блога выбирается из явного URL (domain-first flows) либо
// автогенерируется из username/заголовка/типа/вертикали. Автогенерация
// включается, когда шаг домена пропускаем для flow, выставлен флаг
// shouldHideFreePlan, либо flow прячет шаг домена целиком.
func (s *Service) BuildNewSiteParams(in *SiteParamsInput) *domain.NewSiteParams {
	sess := in.Session
	flowToCheck := in.flowToCheck()

	siteTitle := sess.StringDependency(depSiteTitle)
	siteType := sess.StringDependency(domain.DepSiteType)
	vertical := siteVertical(sess)

	shouldSkipDomainStep := in.SiteURL == "" && s.flows.IsDomainStepSkippable(flowToCheck)
	shouldHideFreePlan := sess.BoolDependency(domain.DepShouldHideFreePlan)
	shouldHideDomainStep := in.SiteURL == "" && flowToCheck == engine.FlowOnboardingPlanFirst
	useAutoGeneratedBlogName := shouldSkipDomainStep || shouldHideFreePlan || shouldHideDomainStep

	// Тема может прийти из данных шага, из dependency store либо из
	// таблицы типов сайта.
	theme := firstNonEmpty(
		in.ThemeSlugWithRepo,
		sess.StringDependency(domain.DepThemeSlugWithRepo),
		engine.SiteTypeTheme(siteType),
	)

	timezone := in.Timezone
	if timezone == "" {
		timezone = time.Local.String()
	}

	params := &domain.NewSiteParams{
		BlogTitle: siteTitle,
		Options: domain.NewSiteOptions{
			DesignType:         sess.StringDependency(depDesignType),
			Theme:              theme,
			UseThemeAnnotation: sess.BoolDependency(domain.DepUseThemeHeadstart),
			// Когда segment и vertical не переданы, theme-аннотация
			// заменяется аннотацией по умолчанию.
			DefaultAnnotationAsPrimaryFallback: true,
			SiteGoals:                          sess.StringDependency(depSiteGoals),
			SiteStyle:                          sess.StringDependency(depSiteStyle),
			SiteSegment:                        engine.SiteTypeSegment(siteType),
			SiteVertical:                       sess.StringDependency(depSiteVerticalID),
			SiteVerticalName:                   vertical,
			SiteInformation:                    &domain.SiteInformation{Title: siteTitle},
			SiteCreationFlow:                   flowToCheck,
			TimezoneString:                     timezone,
			WpcomComingSoon:                    in.ComingSoon,
		},
		Public:   in.Public,
		Validate: false,
	}

	if useAutoGeneratedBlogName {
		params.BlogName = firstNonEmpty(
			in.Username,
			sess.StringDependency(domain.DepUsername),
			siteTitle,
			siteType,
			vertical,
		)
		params.FindAvailableURL = true
	} else {
		params.BlogName = in.SiteURL
		params.FindAvailableURL = in.IsPurchasingDomainItem
	}

	if in.LastKnownFlow == engine.FlowImport || in.LastKnownFlow == engine.FlowImportOnboarding {
		// Пока import не определил настоящий заголовок, вместо него
		// используется URL источника.
		if siteTitle == "" {
			params.BlogTitle = in.SiteURL
		}
		params.Options.NuxImportEngine = sess.StringDependency(depImportSiteEngine)
		params.Options.NuxImportFromURL = sess.StringDependency(depImportSiteURL)
	}

	// Стартовый business-контент для FSE-тестирования.
	if in.LastKnownFlow == engine.FlowTestFSE {
		params.Options.SiteSegment = 1
	}

	if in.InPageBuilder {
		params.Options.InPageBuilder = true
	}

	return params
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
