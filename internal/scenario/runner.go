package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/policy"
)

// Run evaluates all cases in a scenario against the given policy config.
// Each case is independent.
func Run(s *Scenario, cfg *policy.Config) *RunResult {
	result := &RunResult{
		Name:  s.Name,
		Total: len(s.Cases),
	}

	for i, c := range s.Cases {
		parts := make([]model.DamagedPart, len(c.Parts))
		for j, sp := range c.Parts {
			parts[j] = model.DamagedPart{
				PartID:           sp.PartID,
				PartLabel:        sp.PartLabel,
				Severity:         sp.Severity,
				Confidence:       sp.Confidence,
				EstimatedCostMin: sp.EstimatedCostMin,
				EstimatedCostMax: sp.EstimatedCostMax,
			}
		}

		pctx := &model.PolicyContext{
			ClaimID:    fmt.Sprintf("scenario-%d", i+1),
			PhotoCount: c.Context.PhotoCount,
		}
		if c.Context.HasHistorical {
			pctx.Historical = &model.HistoricalData{
				SimilarClaimsCount: c.Context.SimilarClaims,
				AverageFinalCost:   c.Context.AverageFinalCost,
				StandardDeviation:  c.Context.StandardDeviation,
			}
		}

		cr := CaseResult{
			Index:    i + 1,
			Name:     c.Name,
			Expected: strings.ToUpper(c.Expect),
		}

		ev, err := policy.Evaluate(parts, pctx, cfg)
		if err != nil {
			cr.Actual = "ERROR"
			cr.Reason = err.Error()
			result.Failed++
			result.Cases = append(result.Cases, cr)
			continue
		}

		cr.Actual = string(ev.Assessment.Recommendation.Code)
		cr.Reason = ev.Assessment.Recommendation.Text

		if cr.Actual == cr.Expected && flagsMatch(c.ExpectFlags, ev.Assessment) {
			cr.Passed = true
			result.Passed++
		} else {
			if !flagsMatch(c.ExpectFlags, ev.Assessment) {
				cr.Reason = fmt.Sprintf("flags %v did not include all of %v", ev.Assessment.Flags, c.ExpectFlags)
			}
			result.Failed++
		}

		result.Cases = append(result.Cases, cr)
	}

	return result
}

func flagsMatch(expected []string, a model.Assessment) bool {
	for _, want := range expected {
		if !a.HasFlag(model.RiskFlag(strings.ToUpper(want))) {
			return false
		}
	}
	return true
}

// LoadAndRun loads a scenario YAML file, loads the policy config, and runs.
func LoadAndRun(path, policyPath string) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	cfg, err := policy.LoadConfig(policyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	result := Run(&s, cfg)
	result.File = path

	return result, nil
}
