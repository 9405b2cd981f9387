package impact

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// singularEpsilon guards the singular/plural decision against float drift;
// impact arrives as amount*factor and can land a hair off an exact 1.
const singularEpsilon = 1e-9

var peopleWords = []string{"person", "people", "child", "children"}

func isPeopleUnit(unitSingular string) bool {
	lower := strings.ToLower(unitSingular)
	for _, w := range peopleWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func isMeasuredUnit(unitSingular string) bool {
	switch strings.ToLower(unitSingular) {
	case "kg", "liter", "l":
		return true
	}
	return false
}

// FormatImpact renders the impact quantity for humans. People-type units are
// shown as whole persons once impact reaches 1, but keep two decimals below 1
// so a small donation never reads as "0 people". Weight/volume units always
// carry one decimal. Everything else drops the decimal when it is zero.
func FormatImpact(impact float64, unitSingular string) string {
	if isPeopleUnit(unitSingular) {
		if impact >= 1 {
			return strconv.FormatInt(int64(math.Floor(impact)), 10)
		}
		return strconv.FormatFloat(impact, 'f', 2, 64)
	}
	if isMeasuredUnit(unitSingular) {
		return strconv.FormatFloat(impact, 'f', 1, 64)
	}
	if impact == math.Trunc(impact) {
		return strconv.FormatInt(int64(impact), 10)
	}
	return strconv.FormatFloat(impact, 'f', 1, 64)
}

// SelectUnit picks the singular form only when impact is 1 (within epsilon).
func SelectUnit(impact float64, singular, plural string) string {
	if math.Abs(impact-1) < singularEpsilon {
		return singular
	}
	return plural
}

// CTAParams carries the caller-owned pieces of the call-to-action sentence.
type CTAParams struct {
	ProjectTitle string
	Amount       float64
	Points       int64
}

// RenderPast builds the past-tense narrative: "{impact} {unit} {free text}".
// Templates only contribute the free-text tail.
func RenderPast(res Resolution, impact float64, lang Lang) string {
	formatted := FormatImpact(impact, res.UnitSingular.Get(lang))
	unit := SelectUnit(impact, res.UnitSingular.Get(lang), res.UnitPlural.Get(lang))
	return fmt.Sprintf("%s %s %s", formatted, unit, res.PastTemplate.Get(lang))
}

// RenderCTA builds the call-to-action sentence. The scaffolding (amount,
// impact, unit, points) is owned here so template authors cannot alter the
// numeric parts; both languages keep the same structural order.
func RenderCTA(res Resolution, impact float64, p CTAParams, lang Lang) string {
	formatted := FormatImpact(impact, res.UnitSingular.Get(lang))
	unit := SelectUnit(impact, res.UnitSingular.Get(lang), res.UnitPlural.Get(lang))
	amount := strconv.FormatFloat(p.Amount, 'f', -1, 64)

	if lang == LangDE {
		return fmt.Sprintf("Unterstütze %s mit %s $ und hilf %s %s %s – sammle %d Impact Points",
			p.ProjectTitle, amount, formatted, unit, res.CTATemplate.Get(lang), p.Points)
	}
	return fmt.Sprintf("Support %s with $%s and help %s %s %s — earn %d Impact Points",
		p.ProjectTitle, amount, formatted, unit, res.CTATemplate.Get(lang), p.Points)
}
