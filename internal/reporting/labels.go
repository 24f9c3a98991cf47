package reporting

import "github.com/zorak1103/okrtree/internal/hierarchy"

// labels holds the fixed report wording for one locale. Entity names
// (LIFE DOMAIN, GOAL, OBJECTIVE, KEY RESULT) stay English in both.
type labels struct {
	banner        string
	heading       string
	summaryBanner string
	summary       string
	total         string
	description   string
	domainColumn  string
	noDomains     string
	noGoals       string
	noObjectives  string
	noKeyResults  string
}

var dutchLabels = labels{
	banner:        "GOALS EN OKRs GEGROEPEERD PER LIFE DOMAIN",
	heading:       "Goals en OKRs per life domain",
	summaryBanner: "SAMENVATTING",
	summary:       "Samenvatting",
	total:         "TOTAAL",
	description:   "Beschrijving",
	domainColumn:  "Life domain",
	noDomains:     "Geen life domains gevonden",
	noGoals:       "Geen goals gevonden voor dit life domain",
	noObjectives:  "Geen objectives gevonden voor dit goal",
	noKeyResults:  "Geen key results gevonden voor dit objective",
}

var englishLabels = labels{
	banner:        "GOALS AND OKRS BY LIFE DOMAIN",
	heading:       "Goals and OKRs by Life Domain",
	summaryBanner: "SUMMARY",
	summary:       "Summary",
	total:         "TOTAL",
	description:   "Description",
	domainColumn:  "Life Domain",
	noDomains:     "No life domains found",
	noGoals:       "No goals found for this life domain",
	noObjectives:  "No objectives found for this goal",
	noKeyResults:  "No key results found for this objective",
}

func labelsFor(loc hierarchy.Locale) labels {
	if loc == hierarchy.LocaleEN {
		return englishLabels
	}
	return dutchLabels
}
