package policy

import (
	"fmt"
	"math"

	"github.com/ppiankov/claimgate/internal/model"
)

// EstimatePartCostRange derives the repair cost range for one part, in
// integer cents. A caller-supplied, internally consistent range is returned
// unchanged; the engine never overwrites valid cost data. Otherwise the
// midpoint is base × severity multiplier × damage multiplier, bracketed by
// the configured range multipliers and floored at MinPartCost.
func EstimatePartCostRange(part model.DamagedPart, cfg *Config) (int64, int64) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if part.HasCostRange() {
		return *part.EstimatedCostMin, *part.EstimatedCostMax
	}

	base, ok := cfg.BaseCosts[model.NormalizePartID(part.PartID)]
	if !ok {
		base = cfg.DefaultBaseCost
	}

	sevMul, ok := cfg.SeverityMultipliers[string(model.NormalizeSeverity(part.Severity))]
	if !ok {
		sevMul = 1.0
	}

	damageMul := damageMultiplier(part.DamageTypes, cfg)

	mid := float64(base) * sevMul * damageMul
	lo := int64(math.Round(mid * cfg.RangeMultipliers.Min))
	hi := int64(math.Round(mid * cfg.RangeMultipliers.Max))

	if lo < cfg.MinPartCost {
		lo = cfg.MinPartCost
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// damageMultiplier averages typeMultiplier × areaFactor over the part's
// damage types, clamped to the configured band. 1.0 when no damage types
// are present.
func damageMultiplier(types []model.DamageType, cfg *Config) float64 {
	if len(types) == 0 {
		return 1.0
	}

	sum := 0.0
	for _, dt := range types {
		mul, ok := cfg.DamageTypeMultipliers[model.NormalizePartID(dt.Type)]
		if !ok {
			// Unknown damage-type strings are not an error
			mul = cfg.DefaultDamageTypeMultiplier
		}
		sum += mul * areaFactor(dt.AreaPercentage, cfg)
	}

	return cfg.DamageMultiplierBand.Clamp(sum / float64(len(types)))
}

// areaFactor scales a damage-type multiplier by affected surface area.
// 1.0 when the detector reported no area.
func areaFactor(area *float64, cfg *Config) float64 {
	if area == nil {
		return 1.0
	}
	return cfg.AreaFactorBand.Clamp(*area / cfg.AreaNormalizationPct)
}

// FillCostRanges returns a fresh parts slice with every part carrying a
// valid cost range, deriving ranges where the input had none. Input order
// is preserved and the input slice is never mutated.
func FillCostRanges(parts []model.DamagedPart, cfg *Config) []model.DamagedPart {
	filled := make([]model.DamagedPart, len(parts))
	for i, p := range parts {
		lo, hi := EstimatePartCostRange(p, cfg)
		p.EstimatedCostMin = &lo
		p.EstimatedCostMax = &hi
		filled[i] = p
	}
	return filled
}

// Totals aggregates per-part ranges plus the labor surcharge.
type Totals struct {
	TotalMin int64 `json:"total_min"`
	TotalMax int64 `json:"total_max"`
	LaborMin int64 `json:"labor_min"`
	LaborMax int64 `json:"labor_max"`
}

// ComputeTotals sums per-part cost ranges and adds labor, computed
// independently for the min and max bounds. Zero parts means all totals
// are zero, never an error.
func ComputeTotals(parts []model.DamagedPart, cfg *Config) Totals {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var t Totals
	for _, p := range parts {
		lo, hi := EstimatePartCostRange(p, cfg)
		t.TotalMin += lo
		t.TotalMax += hi
	}

	t.LaborMin = int64(math.Round(float64(t.TotalMin) * cfg.LaborFraction))
	t.LaborMax = int64(math.Round(float64(t.TotalMax) * cfg.LaborFraction))
	t.TotalMin += t.LaborMin
	t.TotalMax += t.LaborMax
	return t
}

// BuildCostBreakdown renders the per-part cost narrative for the audit
// trail. Parts must already carry filled ranges.
func BuildCostBreakdown(parts []model.DamagedPart, cfg *Config) []model.CostBreakdown {
	breakdown := make([]model.CostBreakdown, 0, len(parts))
	for _, p := range parts {
		details := []string{
			fmt.Sprintf("severity: %s", model.NormalizeSeverity(p.Severity)),
			fmt.Sprintf("confidence: %.2f", p.Confidence),
		}
		for _, dt := range p.DamageTypes {
			if dt.AreaPercentage != nil {
				details = append(details, fmt.Sprintf("damage: %s (%.0f%% of surface)", dt.Type, *dt.AreaPercentage))
			} else {
				details = append(details, fmt.Sprintf("damage: %s", dt.Type))
			}
		}
		if p.EstimatedCostMin != nil && p.EstimatedCostMax != nil {
			details = append(details, fmt.Sprintf("estimated range: %s – %s",
				FormatCents(*p.EstimatedCostMin), FormatCents(*p.EstimatedCostMax)))
		}
		breakdown = append(breakdown, model.CostBreakdown{
			Label:   p.Label(),
			Details: details,
		})
	}
	return breakdown
}

// FormatCents renders integer cents as a dollar string, e.g. 50000 → "$500.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
