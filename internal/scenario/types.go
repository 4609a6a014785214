package scenario

// ScenarioPart is one damaged part in a scenario case.
type ScenarioPart struct {
	PartID           string  `yaml:"part_id"`
	PartLabel        string  `yaml:"part_label,omitempty"`
	Severity         string  `yaml:"severity"`
	Confidence       float64 `yaml:"confidence"`
	EstimatedCostMin *int64  `yaml:"estimated_cost_min,omitempty"`
	EstimatedCostMax *int64  `yaml:"estimated_cost_max,omitempty"`
}

// ScenarioContext is the optional evaluation context for a case.
type ScenarioContext struct {
	PhotoCount        int     `yaml:"photo_count,omitempty"`
	SimilarClaims     int     `yaml:"similar_claims,omitempty"`
	AverageFinalCost  int64   `yaml:"average_final_cost,omitempty"`
	StandardDeviation float64 `yaml:"standard_deviation,omitempty"`
	HasHistorical     bool    `yaml:"has_historical,omitempty"`
}

// Case is one test case within a scenario.
type Case struct {
	Name        string          `yaml:"name,omitempty"`
	Parts       []ScenarioPart  `yaml:"parts"`
	Context     ScenarioContext `yaml:"context,omitempty"`
	Expect      string          `yaml:"expect"`
	ExpectFlags []string        `yaml:"expect_flags,omitempty"`
}

// Scenario is a named collection of policy test cases.
type Scenario struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one test case.
type CaseResult struct {
	Index    int    `json:"index"`
	Name     string `json:"name,omitempty"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Reason   string `json:"reason,omitempty"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
