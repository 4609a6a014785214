package model

// HistoricalData summarizes prior similar claims, supplied by the caller
// when available. Used only to adjust flags and the fraud score.
type HistoricalData struct {
	SimilarClaimsCount int     `json:"similar_claims_count"`
	AverageFinalCost   int64   `json:"average_final_cost"`
	StandardDeviation  float64 `json:"standard_deviation"`
}

// PolicyContext is optional evaluation context. A nil context is always a
// valid input; every field only sharpens flags or the fraud score.
type PolicyContext struct {
	ClaimID      string          `json:"claim_id,omitempty"`
	UserID       string          `json:"user_id,omitempty"`
	PhotoCount   int             `json:"photo_count,omitempty"`
	ModelVersion string          `json:"model_version,omitempty"`
	BatchID      string          `json:"batch_id,omitempty"`
	Historical   *HistoricalData `json:"historical_data,omitempty"`
}
