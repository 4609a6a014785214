package policy

import (
	"fmt"

	"github.com/ppiankov/claimgate/internal/model"
)

// ValidateAssessment surfaces semantic problems in a built assessment as
// human-readable strings. The engine tolerates these conditions during
// evaluation so degraded AI output still produces a decision; the caller
// uses this list to block approval and present the assessment as
// provisional. Empty result means the assessment is clean.
func ValidateAssessment(a model.Assessment) []string {
	var problems []string

	if len(a.DamagedParts) == 0 {
		problems = append(problems, "assessment contains no damaged parts")
	}

	for i, p := range a.DamagedParts {
		label := p.Label()
		if label == "" {
			label = fmt.Sprintf("part %d", i+1)
		}

		if p.Confidence < 0 || p.Confidence > 1 {
			problems = append(problems, fmt.Sprintf("%s: confidence %.2f outside [0, 1]", label, p.Confidence))
		}

		if !model.KnownSeverity(model.NormalizeSeverity(p.Severity)) {
			problems = append(problems, fmt.Sprintf("%s: unknown severity %q", label, p.Severity))
		}

		switch {
		case p.EstimatedCostMin == nil || p.EstimatedCostMax == nil:
			problems = append(problems, fmt.Sprintf("%s: missing estimated cost range", label))
		case *p.EstimatedCostMax < *p.EstimatedCostMin:
			problems = append(problems, fmt.Sprintf("%s: inverted cost range (%d > %d)",
				label, *p.EstimatedCostMin, *p.EstimatedCostMax))
		}
	}

	if a.TotalMax < a.TotalMin {
		problems = append(problems, fmt.Sprintf("inverted claim totals (%d > %d)", a.TotalMin, a.TotalMax))
	}

	return problems
}

// RequiresSeniorApproval reports whether the assessment cannot be settled
// by a front-line agent alone. Derivable from the assessment alone.
func RequiresSeniorApproval(a model.Assessment) bool {
	switch a.Recommendation.Code {
	case model.CodeEscalateSenior, model.CodeEscalateStructural:
		return true
	}
	return a.FraudRiskScore > 0.5
}

// ShouldAutoEscalate reports whether the claim must bypass the normal queue
// regardless of reviewer availability.
func ShouldAutoEscalate(a model.Assessment) bool {
	return a.HasFlag(model.FlagStructuralDamage) || a.FraudRiskScore >= 0.7
}
