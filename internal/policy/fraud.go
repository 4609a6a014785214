package policy

import "github.com/ppiankov/claimgate/internal/model"

// FraudRiskScore computes a deterministic, explainable fraud-risk score in
// [0, 1]. This is NOT a fraud determination; it is cumulative scoring based
// on cost/severity mismatches, part-count fragmentation, and deviation from
// similar historical claims. Parts must already carry filled cost ranges.
func FraudRiskScore(parts []model.DamagedPart, pctx *model.PolicyContext, cfg *Config) float64 {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	score := 0.0

	// Minor severity with an expensive estimate is the classic mismatch.
	for _, p := range parts {
		if model.NormalizeSeverity(p.Severity) == model.SeverityMinor &&
			p.EstimatedCostMax != nil && *p.EstimatedCostMax > cfg.Fraud.MismatchCost {
			score += cfg.Fraud.MismatchWeight
			break
		}
	}

	// Many small parts on one claim suggests padding.
	if len(parts) > cfg.Fraud.FragmentationParts {
		score += cfg.Fraud.FragmentationWeight
	}

	// Deviation from the historical average beyond the sigma band.
	if pctx != nil && pctx.Historical != nil {
		var sumMax int64
		for _, p := range parts {
			if p.EstimatedCostMax != nil {
				sumMax += *p.EstimatedCostMax
			}
		}
		delta := float64(pctx.Historical.AverageFinalCost - sumMax)
		if delta < 0 {
			delta = -delta
		}
		if delta > cfg.Fraud.DeviationSigma*pctx.Historical.StandardDeviation {
			score += cfg.Fraud.DeviationWeight
		}
	}

	if score > 1 {
		score = 1
	}
	return score
}
