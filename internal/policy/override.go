package policy

import (
	"fmt"

	"github.com/ppiankov/claimgate/internal/model"
)

// ReplacePart returns a NEW evaluation with the part at index replaced and
// everything downstream (costs, totals, confidence, flags, recommendation,
// routing) recomputed. The input assessment is never mutated, so undo is a
// matter of keeping the previous value. The replacement part goes through
// the same estimator contract: a consistent caller-supplied range passes
// through, anything else is re-derived.
func ReplacePart(a model.Assessment, index int, part model.DamagedPart, pctx *model.PolicyContext, cfg *Config) (model.Evaluation, error) {
	if index < 0 || index >= len(a.DamagedParts) {
		return model.Evaluation{}, fmt.Errorf("policy: part index %d out of range (have %d parts)", index, len(a.DamagedParts))
	}

	parts := make([]model.DamagedPart, len(a.DamagedParts))
	copy(parts, a.DamagedParts)
	parts[index] = part

	ev, err := Evaluate(parts, pctx, cfg)
	if err != nil {
		return model.Evaluation{}, err
	}

	// Provenance survives the override; only the timestamp moves.
	ev.Assessment.Meta.ModelVersion = a.Meta.ModelVersion
	ev.Assessment.Meta.BatchID = a.Meta.BatchID
	return ev, nil
}

// SignificantOverride reports whether a human override moved the claim total
// enough to count as high-value training data. Either bound triggers:
// absolute delta in cents or relative delta against the original total.
func SignificantOverride(before, after model.Assessment, cfg *Config) bool {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	delta := after.TotalMax - before.TotalMax
	if delta < 0 {
		delta = -delta
	}

	if delta > cfg.Override.SignificantDeltaAbs {
		return true
	}
	if before.TotalMax > 0 {
		return float64(delta)/float64(before.TotalMax) > cfg.Override.SignificantDeltaPct
	}
	return delta > 0
}
