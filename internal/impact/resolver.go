package impact

import (
	"giveback/pkg/utils"
)

type Lang string

const (
	LangEN Lang = "en"
	LangDE Lang = "de"
)

// LocalizedText holds both language variants of a template or unit name.
type LocalizedText struct {
	En string `json:"en"`
	De string `json:"de"`
}

func (l LocalizedText) Get(lang Lang) string {
	if lang == LangDE {
		return l.De
	}
	return l.En
}

func (l LocalizedText) complete() bool {
	return l.En != "" && l.De != ""
}

// Tier is an amount range [MinAmount, MaxAmount) with its own conversion
// factor and templates. Tiers are ordered; the first tier's MinAmount is
// assumed to be 0 by the authoring tooling, callers do not re-validate it.
type Tier struct {
	MinAmount    float64       `json:"min_amount"`
	MaxAmount    float64       `json:"max_amount"`
	ImpactFactor float64       `json:"impact_factor"`
	CTATemplate  LocalizedText `json:"cta_template"`
	PastTemplate LocalizedText `json:"past_template"`
}

// Config is the canonical impact configuration of a project. A project has
// either a flat factor or a non-empty tier list; project-level templates and
// units apply in the flat case, tier templates win in the tiered case.
type Config struct {
	FlatFactor       *float64      `json:"impact_factor"`
	Tiers            []Tier        `json:"tiers"`
	UnitSingular     LocalizedText `json:"unit_singular"`
	UnitPlural       LocalizedText `json:"unit_plural"`
	CTATemplate      LocalizedText `json:"cta_template"`
	PastTemplate     LocalizedText `json:"past_template"`
	PointsMultiplier float64       `json:"points_multiplier"`
}

// Resolution is the factor and text material selected for one amount.
type Resolution struct {
	Factor       float64
	CTATemplate  LocalizedText
	PastTemplate LocalizedText
	UnitSingular LocalizedText
	UnitPlural   LocalizedText
}

// Usable reports whether a config can produce a snapshot: it needs a flat
// factor or at least one tier, units in both languages, and both language
// variants of whichever templates apply.
func Usable(cfg Config) bool {
	if !cfg.UnitSingular.complete() || !cfg.UnitPlural.complete() {
		return false
	}
	if len(cfg.Tiers) > 0 {
		for _, t := range cfg.Tiers {
			if !t.CTATemplate.complete() || !t.PastTemplate.complete() {
				return false
			}
		}
		return true
	}
	if cfg.FlatFactor != nil {
		return cfg.CTATemplate.complete() && cfg.PastTemplate.complete()
	}
	return false
}

// Resolve selects the applicable conversion factor for amount. Tier bounds
// are half-open [min, max); an amount at or above every tier's max falls back
// to the last tier. No rounding happens here.
func Resolve(cfg Config, amount float64) (Resolution, error) {
	if len(cfg.Tiers) > 0 {
		tier := cfg.Tiers[len(cfg.Tiers)-1]
		for _, t := range cfg.Tiers {
			if amount >= t.MinAmount && amount < t.MaxAmount {
				tier = t
				break
			}
		}
		return Resolution{
			Factor:       tier.ImpactFactor,
			CTATemplate:  tier.CTATemplate,
			PastTemplate: tier.PastTemplate,
			UnitSingular: cfg.UnitSingular,
			UnitPlural:   cfg.UnitPlural,
		}, nil
	}

	if cfg.FlatFactor != nil {
		return Resolution{
			Factor:       *cfg.FlatFactor,
			CTATemplate:  cfg.CTATemplate,
			PastTemplate: cfg.PastTemplate,
			UnitSingular: cfg.UnitSingular,
			UnitPlural:   cfg.UnitPlural,
		}, nil
	}

	return Resolution{}, utils.ErrNoImpactData
}
