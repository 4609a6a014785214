package policy

import "github.com/ppiankov/claimgate/internal/model"

// Recommend maps confidence, total exposure, and risk flags to a routing
// recommendation.
//
// Decision order (must not be changed, first match wins):
//  1. Structural damage always escalates to a structural engineer.
//  2. Fast-track needs high confidence AND low cost AND neither the
//     HIGH_EXPOSURE nor LOW_CONFIDENCE flag. The flag checks are not
//     redundant with the thresholds: flags may be raised by combined
//     signals the thresholds alone cannot see.
//  3. Low confidence or high exposure escalates to a senior adjuster.
//  4. Everything else goes to manual review.
func Recommend(confidence float64, totalMax int64, flags []model.RiskFlag, cfg *Config) model.Recommendation {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	hasFlag := func(f model.RiskFlag) bool {
		for _, have := range flags {
			if have == f {
				return true
			}
		}
		return false
	}

	if hasFlag(model.FlagStructuralDamage) {
		return model.Recommendation{
			Code:     model.CodeEscalateStructural,
			Text:     "Escalate for structural review",
			Priority: 5,
		}
	}

	if confidence >= cfg.FastTrack.MinConfidence &&
		totalMax <= cfg.FastTrack.MaxCost &&
		!hasFlag(model.FlagHighExposure) &&
		!hasFlag(model.FlagLowConfidence) {
		return model.Recommendation{
			Code:     model.CodeFastTrackReview,
			Text:     "Fast-track approval recommended",
			Priority: 2,
		}
	}

	if confidence < cfg.Escalation.MinConfidence ||
		totalMax > cfg.Escalation.HighExposureThreshold {
		return model.Recommendation{
			Code:     model.CodeEscalateSenior,
			Text:     "Escalate to senior adjuster",
			Priority: 4,
		}
	}

	return model.Recommendation{
		Code:     model.CodeManualReview,
		Text:     "Manual review required",
		Priority: 3,
	}
}

// RouteFor maps a recommendation code to routing instructions. Stateless
// lookup; unknown codes fall back to the manual-review routing.
func RouteFor(code model.RecommendationCode) model.RoutingInstructions {
	switch code {
	case model.CodeFastTrackReview:
		return model.RoutingInstructions{
			AssignTo:             model.RoleAgent,
			Priority:             2,
			EstimatedTimeMinutes: 15,
			RequiredActions:      []string{"Quick validation", "Fast-track approval"},
		}
	case model.CodeEscalateStructural:
		return model.RoutingInstructions{
			AssignTo:             model.RoleStructuralEngineer,
			Priority:             5,
			EstimatedTimeMinutes: 120,
			RequiredActions:      []string{"Structural assessment", "Safety inspection", "Detailed report"},
		}
	case model.CodeEscalateSenior:
		return model.RoutingInstructions{
			AssignTo:             model.RoleSeniorAdjuster,
			Priority:             4,
			EstimatedTimeMinutes: 60,
			RequiredActions:      []string{"Comprehensive review", "Cost validation", "Approval decision"},
		}
	default:
		return model.RoutingInstructions{
			AssignTo:             model.RoleAgent,
			Priority:             3,
			EstimatedTimeMinutes: 30,
			RequiredActions:      []string{"Initial review", "Cost confirmation"},
		}
	}
}
