package engine

// landingPageVerticals — вертикали, для которых существуют landing
// pages. Вход через такую страницу отслеживается отдельным
// tracks-событием.
var landingPageVerticals = map[string]struct{}{
	"art":         {},
	"business":    {},
	"fashion":     {},
	"finance":     {},
	"fitness":     {},
	"food":        {},
	"music":       {},
	"photography": {},
	"travel":      {},
}

// IsValidLandingPageVertical возвращает true для вертикали,
// имеющей landing page.
func IsValidLandingPageVertical(vertical string) bool {
	_, ok := landingPageVerticals[vertical]
	return ok
}
