package impact

import "time"

// Snapshot is the immutable record attached to a donation at completion time.
// Everything except Timestamp is a pure function of (config, amount, lang,
// cta params), so replays and retries reproduce it exactly.
type Snapshot struct {
	CalculatedImpact  float64 `json:"calculated_impact"`
	ImpactFactor      float64 `json:"impact_factor"`
	UnitSingular      string  `json:"unit_singular"`
	UnitPlural        string  `json:"unit_plural"`
	Unit              string  `json:"unit"`
	GeneratedTextCTA  string  `json:"generated_text_cta"`
	GeneratedTextPast string  `json:"generated_text_past"`
	Timestamp         int64   `json:"timestamp"`
}

// BuildSnapshot composes Resolve and the renderer for one language.
func BuildSnapshot(cfg Config, amount float64, lang Lang, p CTAParams) (Snapshot, error) {
	res, err := Resolve(cfg, amount)
	if err != nil {
		return Snapshot{}, err
	}

	impact := amount * res.Factor
	singular := res.UnitSingular.Get(lang)
	plural := res.UnitPlural.Get(lang)

	return Snapshot{
		CalculatedImpact:  impact,
		ImpactFactor:      res.Factor,
		UnitSingular:      singular,
		UnitPlural:        plural,
		Unit:              SelectUnit(impact, singular, plural),
		GeneratedTextCTA:  RenderCTA(res, impact, p, lang),
		GeneratedTextPast: RenderPast(res, impact, lang),
		Timestamp:         time.Now().Unix(),
	}, nil
}
