package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrUnknownStyle неизвестный стиль татуировки
	ErrUnknownStyle = errors.New("domain: unknown tattoo style")

	// ErrUnknownSize неизвестный размер
	ErrUnknownSize = errors.New("domain: unknown size class")

	// ErrUnknownBudget неизвестный бюджет
	ErrUnknownBudget = errors.New("domain: unknown budget bracket")
)

// TattooStyle стиль татуировки в заявке листа ожидания
type TattooStyle string

const (
	StyleUnspecified    TattooStyle = "unspecified"
	StyleTraditional    TattooStyle = "traditional"
	StyleNeoTraditional TattooStyle = "neo_traditional"
	StyleRealism        TattooStyle = "realism"
	StyleWatercolor     TattooStyle = "watercolor"
	StyleGeometric      TattooStyle = "geometric"
	StyleJapanese       TattooStyle = "japanese"
	StyleTribal         TattooStyle = "tribal"
	StyleBlackwork      TattooStyle = "blackwork"
	StyleMinimalist     TattooStyle = "minimalist"
)

var knownStyles = map[TattooStyle]struct{}{
	StyleUnspecified:    {},
	StyleTraditional:    {},
	StyleNeoTraditional: {},
	StyleRealism:        {},
	StyleWatercolor:     {},
	StyleGeometric:      {},
	StyleJapanese:       {},
	StyleTribal:         {},
	StyleBlackwork:      {},
	StyleMinimalist:     {},
}

// ParseTattooStyle разбирает стиль. Пустая строка = unspecified.
func ParseTattooStyle(s string) (TattooStyle, error) {
	v := TattooStyle(normalizeEnum(s))
	if v == "" {
		return StyleUnspecified, nil
	}
	if _, ok := knownStyles[v]; !ok {
		return "", ErrUnknownStyle
	}
	return v, nil
}

// SizeClass размер татуировки
type SizeClass string

const (
	SizeUnspecified SizeClass = "unspecified"
	SizeSmall       SizeClass = "small"
	SizeMedium      SizeClass = "medium"
	SizeLarge       SizeClass = "large"
	SizeExtraLarge  SizeClass = "extra_large"
)

// ParseSizeClass разбирает размер. Пустая строка = unspecified.
func ParseSizeClass(s string) (SizeClass, error) {
	switch v := SizeClass(normalizeEnum(s)); v {
	case "":
		return SizeUnspecified, nil
	case SizeUnspecified, SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge:
		return v, nil
	default:
		return "", ErrUnknownSize
	}
}

// BudgetBracket бюджет клиента
type BudgetBracket string

const (
	BudgetUnspecified BudgetBracket = "unspecified"
	BudgetUnder200    BudgetBracket = "under_200"
	Budget200To500    BudgetBracket = "200_500"
	Budget500To1000   BudgetBracket = "500_1000"
	BudgetOver1000    BudgetBracket = "over_1000"
)

// ParseBudgetBracket разбирает бюджет. Пустая строка = unspecified.
func ParseBudgetBracket(s string) (BudgetBracket, error) {
	switch v := BudgetBracket(normalizeEnum(s)); v {
	case "":
		return BudgetUnspecified, nil
	case BudgetUnspecified, BudgetUnder200, Budget200To500, Budget500To1000, BudgetOver1000:
		return v, nil
	default:
		return "", ErrUnknownBudget
	}
}

func normalizeEnum(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

// WaitlistEntry заявка в листе ожидания
type WaitlistEntry struct {
	ID             int64
	CustomerID     int64
	ResourceID     *int64 // nil = любой мастер
	Style          TattooStyle
	Size           SizeClass
	PreferredDates string
	Budget         BudgetBracket
	Description    string
	IsActive       bool

	PromotedBookingID *int64
	DeactivatedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchesResource returns true if the entry accepts the resource
func (e *WaitlistEntry) MatchesResource(resourceID int64) bool {
	return e.ResourceID == nil || *e.ResourceID == resourceID
}

// IsOwnedBy returns true if the entry belongs to the customer
func (e *WaitlistEntry) IsOwnedBy(customerID int64) bool {
	return e.CustomerID == customerID
}

// WaitlistFilter фильтр выборки заявок
type WaitlistFilter struct {
	CustomerID *int64
	ResourceID *int64
	// IncludeAnyResource включает заявки без предпочтения мастера при фильтре по ResourceID
	IncludeAnyResource bool
	IncludeInactive    bool
}

// Matches проверяет заявку на соответствие фильтру
func (f WaitlistFilter) Matches(e *WaitlistEntry) bool {
	if !f.IncludeInactive && !e.IsActive {
		return false
	}
	if f.CustomerID != nil && e.CustomerID != *f.CustomerID {
		return false
	}
	if f.ResourceID != nil {
		if e.ResourceID == nil {
			return f.IncludeAnyResource
		}
		return *e.ResourceID == *f.ResourceID
	}
	return true
}

// WaitlistUpdate частичное обновление заявки
type WaitlistUpdate struct {
	ResourceID     *int64
	ClearResource  bool
	Style          *TattooStyle
	Size           *SizeClass
	Budget         *BudgetBracket
	PreferredDates *string
	Description    *string
}

// IsEmpty returns true if nothing is updated
func (u WaitlistUpdate) IsEmpty() bool {
	return u.ResourceID == nil && !u.ClearResource && u.Style == nil && u.Size == nil &&
		u.Budget == nil && u.PreferredDates == nil && u.Description == nil
}

// Apply применяет обновление к заявке
func (u WaitlistUpdate) Apply(e *WaitlistEntry) {
	if u.ClearResource {
		e.ResourceID = nil
	} else if u.ResourceID != nil {
		e.ResourceID = u.ResourceID
	}
	if u.Style != nil {
		e.Style = *u.Style
	}
	if u.Size != nil {
		e.Size = *u.Size
	}
	if u.Budget != nil {
		e.Budget = *u.Budget
	}
	if u.PreferredDates != nil {
		e.PreferredDates = *u.PreferredDates
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
}
