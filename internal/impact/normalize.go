package impact

import "strconv"

// NormalizeConfigRow maps a raw impact-config document onto the canonical
// Config shape. Older admin tooling wrote camelCase keys, the current tooling
// writes snake_case; both spellings are accepted for every field.
func NormalizeConfigRow(row map[string]any) Config {
	cfg := Config{
		FlatFactor:       floatPtrField(row, "impact_factor", "impactFactor"),
		UnitSingular:     textField(row, "unit_singular", "unitSingular"),
		UnitPlural:       textField(row, "unit_plural", "unitPlural"),
		CTATemplate:      textField(row, "cta_template", "ctaTemplate"),
		PastTemplate:     textField(row, "past_template", "pastTemplate"),
		PointsMultiplier: floatField(row, "points_multiplier", "pointsMultiplier"),
	}

	rawTiers, ok := listField(row, "tiers", "impactTiers", "impact_tiers")
	if !ok {
		return cfg
	}
	for _, rt := range rawTiers {
		tierRow, ok := rt.(map[string]any)
		if !ok {
			continue
		}
		cfg.Tiers = append(cfg.Tiers, Tier{
			MinAmount:    floatField(tierRow, "min_amount", "minAmount"),
			MaxAmount:    floatField(tierRow, "max_amount", "maxAmount"),
			ImpactFactor: floatField(tierRow, "impact_factor", "impactFactor"),
			CTATemplate:  textField(tierRow, "cta_template", "ctaTemplate"),
			PastTemplate: textField(tierRow, "past_template", "pastTemplate"),
		})
	}
	return cfg
}

func lookup(row map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// toFloat tolerates the string-typed numerics some store exports produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func floatPtrField(row map[string]any, keys ...string) *float64 {
	v, ok := lookup(row, keys...)
	if !ok {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

func floatField(row map[string]any, keys ...string) float64 {
	if p := floatPtrField(row, keys...); p != nil {
		return *p
	}
	return 0
}

func textField(row map[string]any, keys ...string) LocalizedText {
	v, ok := lookup(row, keys...)
	if !ok {
		return LocalizedText{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return LocalizedText{}
	}
	var t LocalizedText
	if s, ok := m["en"].(string); ok {
		t.En = s
	}
	if s, ok := m["de"].(string); ok {
		t.De = s
	}
	return t
}

func listField(row map[string]any, keys ...string) ([]any, bool) {
	v, ok := lookup(row, keys...)
	if !ok {
		return nil, false
	}
	l, ok := v.([]any)
	return l, ok
}
