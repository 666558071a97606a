package checkout

import "github.com/shaiso/Concierge/internal/domain"

// ContactInfo — платёжные контактные данные покупателя.
type ContactInfo struct {
	// CountryCode и PostalCode участвуют в расчёте налога.
	CountryCode string
	PostalCode  string

	// State — код региона (subdivision).
	State string
}

// DataStore — внешнее хранилище данных checkout-формы. Значения
// читаются в момент отправки, не кэшируются: пользователь мог изменить
// адрес между выбором метода и нажатием кнопки оплаты.
type DataStore interface {
	// ContactInfo возвращает текущие контактные данные.
	ContactInfo() ContactInfo

	// SiteID возвращает идентификатор оплачиваемого сайта либо 0.
	SiteID() int

	// DomainDetails возвращает контактные данные покупки домена
	// либо nil.
	DomainDetails() *domain.DomainDetails
}

// StaticData — неизменяемая реализация DataStore. Используется в
// тестах и для одноразовых отправок, когда данные уже собраны.
type StaticData struct {
	Contact ContactInfo
	Site    int
	Domain  *domain.DomainDetails
}

var _ DataStore = (*StaticData)(nil)

func (d *StaticData) ContactInfo() ContactInfo             { return d.Contact }
func (d *StaticData) SiteID() int                          { return d.Site }
func (d *StaticData) DomainDetails() *domain.DomainDetails { return d.Domain }
