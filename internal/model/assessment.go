package model

// RiskFlag marks a condition that affects routing or review requirements.
// The set is closed; callers match on these literal values.
type RiskFlag string

const (
	FlagStructuralDamage   RiskFlag = "STRUCTURAL_DAMAGE"
	FlagHighExposure       RiskFlag = "HIGH_EXPOSURE"
	FlagLowConfidence      RiskFlag = "LOW_CONFIDENCE"
	FlagInconsistentDamage RiskFlag = "INCONSISTENT_DAMAGE"
	FlagMissingAngles      RiskFlag = "MISSING_ANGLES"
)

// RecommendationCode is the routing recommendation for a claim.
// The set is closed; UI, routing, and audit match on these literal values.
type RecommendationCode string

const (
	CodeFastTrackReview    RecommendationCode = "FAST_TRACK_REVIEW"
	CodeEscalateStructural RecommendationCode = "ESCALATE_STRUCTURAL"
	CodeEscalateSenior     RecommendationCode = "ESCALATE_SENIOR"
	CodeManualReview       RecommendationCode = "MANUAL_REVIEW"
)

// Recommendation pairs a routing code with its display text.
type Recommendation struct {
	Code     RecommendationCode `json:"code"`
	Text     string             `json:"text"`
	Priority int                `json:"priority,omitempty"`
}

// AssigneeRole identifies who a claim is routed to.
type AssigneeRole string

const (
	RoleAgent              AssigneeRole = "agent"
	RoleSeniorAdjuster     AssigneeRole = "senior_adjuster"
	RoleStructuralEngineer AssigneeRole = "structural_engineer"
	RoleSIU                AssigneeRole = "siu"
)

// RoutingInstructions tell the claims platform who handles the claim and how
// fast. Derived purely from the recommendation code; never persisted.
type RoutingInstructions struct {
	AssignTo             AssigneeRole `json:"assign_to"`
	Priority             int          `json:"priority"`
	EstimatedTimeMinutes int          `json:"estimated_time_minutes"`
	RequiredActions      []string     `json:"required_actions"`
}

// CostBreakdown is the per-part cost narrative for the audit trail.
type CostBreakdown struct {
	Label   string   `json:"label"`
	Details []string `json:"details"`
}

// Meta carries provenance for an assessment. Caller-supplied passthrough,
// never used in decision logic.
type Meta struct {
	ModelVersion     string `json:"model_version,omitempty"`
	ProcessingTimeMS int64  `json:"processing_time_ms"`
	Timestamp        string `json:"timestamp"`
	BatchID          string `json:"batch_id,omitempty"`
}

// Assessment is the engine's output record for one claim evaluation.
// Constructed once per evaluation and immutable thereafter; overrides go
// through an explicit replace-and-recompute operation that returns a new
// Assessment.
type Assessment struct {
	DamagedParts      []DamagedPart   `json:"damaged_parts"`
	TotalMin          int64           `json:"total_min"`
	TotalMax          int64           `json:"total_max"`
	OverallConfidence float64         `json:"overall_confidence"`
	Recommendation    Recommendation  `json:"recommendation"`
	Flags             []RiskFlag      `json:"flags"`
	ImageQuality      []string        `json:"image_quality"`
	CostBreakdown     []CostBreakdown `json:"cost_breakdown"`
	FraudRiskScore    float64         `json:"fraud_risk_score"`
	Meta              Meta            `json:"_meta"`
}

// HasFlag reports whether the assessment carries the given risk flag.
func (a Assessment) HasFlag(f RiskFlag) bool {
	for _, have := range a.Flags {
		if have == f {
			return true
		}
	}
	return false
}

// Evaluation is the full result of one policy application: the assessment,
// where it routes, and the compliance narrative for the audit trail.
type Evaluation struct {
	Assessment      Assessment          `json:"assessment"`
	Routing         RoutingInstructions `json:"routing"`
	ComplianceNotes []string            `json:"compliance_notes"`
}
