package domain

// NewSiteParams — параметры запроса sites/new. Объект собирается заново
// на каждый вызов создания сайта и не хранится дольше исходящего запроса
// (кроме fallback-копии для неаутентифицированного checkout-пути).
//
// Имена JSON-полей — контракт REST API, менять нельзя.
type NewSiteParams struct {
	// BlogName — имя блога: либо явный URL (domain-first flows), либо
	// автосгенерированное имя (см. FindAvailableURL).
	BlogName string `json:"blog_name"`

	// BlogTitle — заголовок сайта.
	BlogTitle string `json:"blog_title"`

	// Options — настройки создаваемого сайта.
	Options NewSiteOptions `json:"options"`

	// Public — видимость сайта (1 — публичный, 0 — скрытый,
	// -1 — приватный).
	Public int `json:"public"`

	// Validate — только проверить параметры, не создавая сайт.
	Validate bool `json:"validate"`

	// FindAvailableURL — подобрать свободный URL на основе BlogName.
	FindAvailableURL bool `json:"find_available_url,omitempty"`
}

// NewSiteOptions — секция options запроса sites/new.
type NewSiteOptions struct {
	DesignType string `json:"designType,omitempty"`
	Theme      string `json:"theme,omitempty"`

	// UseThemeAnnotation — использовать theme-аннотацию вместо
	// аннотации по умолчанию.
	UseThemeAnnotation bool `json:"use_theme_annotation"`

	// DefaultAnnotationAsPrimaryFallback — использовать аннотацию по
	// умолчанию, когда segment и vertical не переданы.
	DefaultAnnotationAsPrimaryFallback bool `json:"default_annotation_as_primary_fallback"`

	SiteGoals        string           `json:"siteGoals,omitempty"`
	SiteStyle        string           `json:"site_style,omitempty"`
	SiteSegment      int              `json:"site_segment,omitempty"`
	SiteVertical     string           `json:"site_vertical,omitempty"`
	SiteVerticalName string           `json:"site_vertical_name,omitempty"`
	SiteInformation  *SiteInformation `json:"site_information,omitempty"`
	SiteCreationFlow string           `json:"site_creation_flow,omitempty"`
	TimezoneString   string           `json:"timezone_string,omitempty"`

	// WpcomComingSoon — создать сайт в режиме "coming soon".
	WpcomComingSoon bool `json:"wpcom_coming_soon"`

	// NuxImportEngine и NuxImportFromURL — параметры import-flow.
	NuxImportEngine  string `json:"nux_import_engine,omitempty"`
	NuxImportFromURL string `json:"nux_import_from_url,omitempty"`

	// InPageBuilder — сайт создаётся для page builder.
	InPageBuilder bool `json:"in_page_builder,omitempty"`

	// IsWpForTeamsSite — сайт WP for Teams (p2).
	IsWpForTeamsSite bool `json:"is_wpforteams_site,omitempty"`
}

// SiteInformation — вложенная секция site_information.
type SiteInformation struct {
	Title string `json:"title,omitempty"`
}

// SiteDomain — домен, привязанный к сайту.
type SiteDomain struct {
	Domain    string `json:"domain"`
	IsPrimary bool   `json:"primary,omitempty"`
}

// DesignType — дискриминант поведения CreateSiteOrDomain.
const (
	// DesignTypeDomain — покупка только домена, сайт не создаётся.
	DesignTypeDomain = "domain"

	// DesignTypeExistingSite — корзина наполняется для существующего сайта.
	DesignTypeExistingSite = "existing-site"
)
