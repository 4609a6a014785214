package audit

// AuditEntry is one line in the hash-chained JSONL audit log: a single
// claim evaluation or override decision. All fields are scalars or string
// slices (no map[string]any) to guarantee deterministic json.Marshal field
// order for reproducible hashing.
type AuditEntry struct {
	Timestamp      string   `json:"ts"`
	ClaimID        string   `json:"claim_id"`
	Event          string   `json:"event"` // "evaluation", "override"
	Recommendation string   `json:"recommendation"`
	AssignTo       string   `json:"assign_to"`
	Flags          []string `json:"flags,omitempty"`
	TotalMin       int64    `json:"total_min"`
	TotalMax       int64    `json:"total_max"`
	Confidence     float64  `json:"confidence"`
	FraudRisk      float64  `json:"fraud_risk"`
	PolicyHash     string   `json:"policy_hash"`
	PrevHash       string   `json:"prev_hash"`
}
