package policy

import (
	"errors"
	"time"

	"github.com/ppiankov/claimgate/internal/model"
)

// ErrNilParts is returned when the parts list is structurally missing.
// A nil slice is a caller bug; an empty slice is a valid claim with no
// detected damage.
var ErrNilParts = errors.New("policy: damaged parts list is nil")

// Evaluate applies the full claim policy to a set of detected damaged parts.
//
// Composition order (must not be changed):
//  1. Per-part cost estimation (consistent caller ranges pass through)
//  2. Totals with labor surcharge
//  3. Overall confidence
//  4. Risk flags
//  5. Recommendation
//  6. Fraud risk score
//  7. Image quality notes, cost breakdown
//  8. Compliance notes
//  9. Routing instructions
//
// Pure computation: no I/O, no shared state. Degraded AI output never
// crashes the pipeline; it always produces some assessment, which
// ValidateAssessment can flag as suspect. Concurrent callers need no
// coordination.
func Evaluate(parts []model.DamagedPart, pctx *model.PolicyContext, cfg *Config) (model.Evaluation, error) {
	if parts == nil {
		return model.Evaluation{}, ErrNilParts
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	start := time.Now()

	filled := FillCostRanges(parts, cfg)
	totals := ComputeTotals(filled, cfg)
	confidence := OverallConfidence(filled)
	flags := CollectFlags(filled, totals.TotalMax, confidence, pctx, cfg)
	rec := Recommend(confidence, totals.TotalMax, flags, cfg)
	fraud := FraudRiskScore(filled, pctx, cfg)

	a := model.Assessment{
		DamagedParts:      filled,
		TotalMin:          totals.TotalMin,
		TotalMax:          totals.TotalMax,
		OverallConfidence: confidence,
		Recommendation:    rec,
		Flags:             flags,
		ImageQuality:      ImageQualityNotes(filled, cfg),
		CostBreakdown:     BuildCostBreakdown(filled, cfg),
		FraudRiskScore:    fraud,
		Meta:              buildMeta(pctx, start),
	}

	return model.Evaluation{
		Assessment:      a,
		Routing:         RouteFor(rec.Code),
		ComplianceNotes: ComplianceNotes(a, cfg),
	}, nil
}

func buildMeta(pctx *model.PolicyContext, start time.Time) model.Meta {
	m := model.Meta{
		ProcessingTimeMS: time.Since(start).Milliseconds(),
		Timestamp:        time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	if pctx != nil {
		m.ModelVersion = pctx.ModelVersion
		m.BatchID = pctx.BatchID
	}
	return m
}
