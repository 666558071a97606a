package engine

// SiteType — запись таблицы типов сайта.
type SiteType struct {
	// ID — числовой идентификатор сегмента (site_segment).
	ID int

	// Slug — слаг типа сайта (значение query-параметра site_type).
	Slug string

	// Theme — тема по умолчанию для этого типа.
	Theme string

	// Label — человекочитаемое имя.
	Label string
}

// siteTypes — таблица типов сайта. Порядок фиксирован: ID входят в
// контракт sites/new (site_segment).
var siteTypes = []SiteType{
	{ID: 1, Slug: "blog", Theme: "pub/independent-publisher-2", Label: "Blog"},
	{ID: 2, Slug: "business", Theme: "pub/professional-business", Label: "Business"},
	{ID: 3, Slug: "professional", Theme: "pub/altofocus", Label: "Professional"},
	{ID: 4, Slug: "online-store", Theme: "pub/dara", Label: "Online store"},
}

// SiteTypeBySlug возвращает запись таблицы по слагу.
func SiteTypeBySlug(slug string) (SiteType, bool) {
	for _, st := range siteTypes {
		if st.Slug == slug {
			return st, true
		}
	}
	return SiteType{}, false
}

// SiteTypeSegment возвращает site_segment для слага либо 0.
func SiteTypeSegment(slug string) int {
	if st, ok := SiteTypeBySlug(slug); ok {
		return st.ID
	}
	return 0
}

// SiteTypeTheme возвращает тему по умолчанию для слага либо "".
func SiteTypeTheme(slug string) string {
	if st, ok := SiteTypeBySlug(slug); ok {
		return st.Theme
	}
	return ""
}
