package policy

import (
	"fmt"

	"github.com/ppiankov/claimgate/internal/model"
)

// ComplianceNotes produces the advisory audit-trail narrative. Notes are
// independent; all may co-occur.
func ComplianceNotes(a model.Assessment, cfg *Config) []string {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var notes []string

	if a.OverallConfidence < cfg.Compliance.ManualVerifyConfidence {
		notes = append(notes, "Low AI confidence: manual verification required before any payout decision")
	}

	if a.TotalMax > cfg.Compliance.EnhancedApprovalCost {
		notes = append(notes, fmt.Sprintf("Estimated exposure exceeds %s: enhanced approval workflow applies",
			FormatCents(cfg.Compliance.EnhancedApprovalCost)))
	}

	if a.HasFlag(model.FlagStructuralDamage) {
		notes = append(notes, "Structural damage: repair must follow OEM procedures and safety guidelines")
	}

	if a.FraudRiskScore > cfg.Compliance.SIUFraudScore {
		notes = append(notes, fmt.Sprintf("Fraud risk score %.2f exceeds threshold: route to SIU for review",
			a.FraudRiskScore))
	}

	return notes
}
