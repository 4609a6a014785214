package policy

import (
	"math"

	"github.com/ppiankov/claimgate/internal/model"
)

// OverallConfidence is the mean of per-part confidences, rounded to two
// decimals. Zero for an empty list. Out-of-range values are not re-clamped
// here; ValidateAssessment surfaces them.
func OverallConfidence(parts []model.DamagedPart) float64 {
	if len(parts) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range parts {
		sum += p.Confidence
	}
	return math.Round(sum/float64(len(parts))*100) / 100
}

// CollectFlags derives the risk flags for one evaluation. Each flag appears
// at most once, in a stable order: structural, exposure, confidence,
// consistency, photo coverage.
func CollectFlags(parts []model.DamagedPart, totalMax int64, confidence float64, pctx *model.PolicyContext, cfg *Config) []model.RiskFlag {
	var flags []model.RiskFlag
	add := func(f model.RiskFlag) {
		for _, have := range flags {
			if have == f {
				return
			}
		}
		flags = append(flags, f)
	}

	for _, p := range parts {
		if model.NormalizeSeverity(p.Severity) == model.SeverityStructural ||
			model.NormalizePartID(p.PartID) == model.PartFrame {
			add(model.FlagStructuralDamage)
			break
		}
	}

	if totalMax > cfg.Escalation.HighExposureThreshold {
		add(model.FlagHighExposure)
	}

	if confidence < cfg.Escalation.MinConfidence {
		add(model.FlagLowConfidence)
	}

	if inconsistentDamage(parts, pctx, cfg) {
		add(model.FlagInconsistentDamage)
	}

	photoCount := 0
	if pctx != nil {
		photoCount = pctx.PhotoCount
	}
	if photoCount < cfg.MinPhotos {
		add(model.FlagMissingAngles)
	}

	return flags
}

// inconsistentDamage checks the historical signal when supplied, otherwise
// the spread of severity scores across parts (needs at least two parts).
func inconsistentDamage(parts []model.DamagedPart, pctx *model.PolicyContext, cfg *Config) bool {
	if pctx != nil && pctx.Historical != nil {
		return pctx.Historical.StandardDeviation > cfg.HistoricalSpreadLimit
	}

	if len(parts) < 2 {
		return false
	}
	return severitySpread(parts) > cfg.SeveritySpreadLimit
}

// severitySpread is the population standard deviation of severity scores.
func severitySpread(parts []model.DamagedPart) float64 {
	scores := make([]float64, len(parts))
	for i, p := range parts {
		score, ok := model.SeverityScore[model.NormalizeSeverity(p.Severity)]
		if !ok {
			score = model.SeverityScore[model.SeverityModerate]
		}
		scores[i] = score
	}

	mean := 0.0
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(scores))

	return math.Sqrt(variance)
}

// ImageQualityNotes returns advisory strings about the photo evidence.
func ImageQualityNotes(parts []model.DamagedPart, cfg *Config) []string {
	var notes []string

	if len(parts) == 0 {
		notes = append(notes, "no damaged parts detected; request additional photos")
		return notes
	}

	for _, p := range parts {
		if p.Confidence < cfg.LowConfidencePhoto {
			notes = append(notes, "low detection confidence on one or more parts; request clearer photos")
			break
		}
	}

	return notes
}
