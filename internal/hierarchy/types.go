// Package hierarchy reconstructs the life domain → goal → objective → key result
// tree from the flat rows produced by the join query.
package hierarchy

// Locale selects which localized column is used for display.
type Locale string

// Supported locales
const (
	LocaleNL Locale = "nl"
	LocaleEN Locale = "en"
)

// ParseLocale returns the Locale for s, or false if s is not supported.
func ParseLocale(s string) (Locale, bool) {
	switch Locale(s) {
	case LocaleNL, LocaleEN:
		return Locale(s), true
	default:
		return "", false
	}
}

// Row is one denormalized record of the join query. Every column is a pointer
// so that NULLs produced by the left joins survive scanning.
type Row struct {
	DomainID      *int64
	DomainKey     *string
	DomainTitleNL *string
	DomainTitleEN *string
	DomainOrder   *int

	GoalID            *int64
	GoalTitleNL       *string
	GoalTitleEN       *string
	GoalDescriptionNL *string
	GoalDescriptionEN *string
	GoalOrder         *int

	ObjectiveID            *int64
	ObjectiveTitleNL       *string
	ObjectiveTitleEN       *string
	ObjectiveDescriptionNL *string
	ObjectiveDescriptionEN *string
	ObjectiveOrder         *int

	KeyResultID            *int64
	KeyResultTitleNL       *string
	KeyResultTitleEN       *string
	KeyResultDescriptionNL *string
	KeyResultDescriptionEN *string
	KeyResultTarget        *float64
	KeyResultUnit          *string
	KeyResultOrder         *int
}

// Text is a value available in both supported locales. A NULL column is
// stored as the empty string.
type Text struct {
	NL string
	EN string
}

func newText(nl, en *string) Text {
	return Text{NL: deref(nl), EN: deref(en)}
}

// In returns the text for locale, falling back to the other locale when the
// requested one is empty.
func (t Text) In(locale Locale) string {
	if locale == LocaleEN {
		if t.EN != "" {
			return t.EN
		}
		return t.NL
	}
	if t.NL != "" {
		return t.NL
	}
	return t.EN
}

// IsEmpty reports whether both locales are empty.
func (t Text) IsEmpty() bool {
	return t.NL == "" && t.EN == ""
}

// Domain holds the life domain columns of the first row that carried its id.
type Domain struct {
	ID    int64
	Key   string
	Title Text
	Order *int
}

// Goal holds the goal columns of the first row that carried its id.
type Goal struct {
	ID          int64
	Title       Text
	Description Text
	Order       *int
}

// Objective holds the objective columns of the first row that carried its id.
type Objective struct {
	ID          int64
	Title       Text
	Description Text
	Order       *int
}

// KeyResult is a leaf of the tree. Key results are never deduplicated.
type KeyResult struct {
	ID          int64
	Title       Text
	Description Text
	Target      *float64
	Unit        string
	Order       *int
}

// clonePtr copies the pointee so the tree never shares memory with the rows.
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
