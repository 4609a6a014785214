package alert

// AlertConfig defines a webhook alert destination.
type AlertConfig struct {
	URL     string            `yaml:"url"     json:"url"`
	Format  string            `yaml:"format"  json:"format"` // "generic", "slack", "pagerduty"
	Events  []string          `yaml:"events"  json:"events"` // recommendation codes or "fraud_review", "significant_override"
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// AlertEvent is the payload sent to webhook endpoints.
type AlertEvent struct {
	Timestamp      string  `json:"timestamp"`
	ClaimID        string  `json:"claim_id"`
	Recommendation string  `json:"recommendation"`
	Reason         string  `json:"reason"`
	AssignTo       string  `json:"assign_to"`
	Priority       int     `json:"priority"`
	TotalMax       int64   `json:"total_max"`
	FraudRisk      float64 `json:"fraud_risk"`
	PolicyHash     string  `json:"policy_hash"`
	Type           string  `json:"type,omitempty"` // "fraud_review", "significant_override"
}
