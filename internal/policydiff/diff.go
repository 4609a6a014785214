// Package policydiff compares two policy configurations so a deployment can
// review a threshold retune before rolling it out.
package policydiff

import (
	"fmt"
	"sort"

	"github.com/ppiankov/claimgate/internal/policy"
)

// Change represents a scalar field change.
type Change struct {
	Field   string `json:"field"`
	Old     string `json:"old"`
	New     string `json:"new"`
	Comment string `json:"comment,omitempty"`
}

// DiffResult holds the comparison of two policy Configs.
type DiffResult struct {
	OldPath    string   `json:"old_path"`
	NewPath    string   `json:"new_path"`
	Changes    []Change `json:"changes"`
	HasChanges bool     `json:"has_changes"`
}

// Diff compares two policy Configs and returns the differences.
func Diff(old, new *policy.Config) *DiffResult {
	r := &DiffResult{}

	diffFloat(r, "fast_track.min_confidence", old.FastTrack.MinConfidence, new.FastTrack.MinConfidence, true)
	diffCents(r, "fast_track.max_cost", old.FastTrack.MaxCost, new.FastTrack.MaxCost, false)
	diffFloat(r, "escalation.min_confidence", old.Escalation.MinConfidence, new.Escalation.MinConfidence, true)
	diffCents(r, "escalation.high_exposure_threshold", old.Escalation.HighExposureThreshold, new.Escalation.HighExposureThreshold, false)

	diffFloat(r, "labor_fraction", old.LaborFraction, new.LaborFraction, false)
	diffCents(r, "min_part_cost", old.MinPartCost, new.MinPartCost, false)
	diffCents(r, "default_base_cost", old.DefaultBaseCost, new.DefaultBaseCost, false)
	diffFloat(r, "range_multipliers.min", old.RangeMultipliers.Min, new.RangeMultipliers.Min, false)
	diffFloat(r, "range_multipliers.max", old.RangeMultipliers.Max, new.RangeMultipliers.Max, false)
	diffInt(r, "min_photos", old.MinPhotos, new.MinPhotos, true)
	diffFloat(r, "severity_spread_limit", old.SeveritySpreadLimit, new.SeveritySpreadLimit, false)
	diffFloat(r, "historical_spread_limit", old.HistoricalSpreadLimit, new.HistoricalSpreadLimit, false)

	diffCents(r, "fraud.mismatch_cost", old.Fraud.MismatchCost, new.Fraud.MismatchCost, false)
	diffFloat(r, "fraud.mismatch_weight", old.Fraud.MismatchWeight, new.Fraud.MismatchWeight, true)
	diffInt(r, "fraud.fragmentation_parts", old.Fraud.FragmentationParts, new.Fraud.FragmentationParts, false)
	diffFloat(r, "fraud.fragmentation_weight", old.Fraud.FragmentationWeight, new.Fraud.FragmentationWeight, true)
	diffFloat(r, "fraud.deviation_sigma", old.Fraud.DeviationSigma, new.Fraud.DeviationSigma, false)
	diffFloat(r, "fraud.deviation_weight", old.Fraud.DeviationWeight, new.Fraud.DeviationWeight, true)

	diffFloat(r, "compliance.manual_verify_confidence", old.Compliance.ManualVerifyConfidence, new.Compliance.ManualVerifyConfidence, true)
	diffCents(r, "compliance.enhanced_approval_cost", old.Compliance.EnhancedApprovalCost, new.Compliance.EnhancedApprovalCost, false)
	diffFloat(r, "compliance.siu_fraud_score", old.Compliance.SIUFraudScore, new.Compliance.SIUFraudScore, false)

	diffCents(r, "override.significant_delta_abs", old.Override.SignificantDeltaAbs, new.Override.SignificantDeltaAbs, false)
	diffFloat(r, "override.significant_delta_pct", old.Override.SignificantDeltaPct, new.Override.SignificantDeltaPct, false)

	diffCentsMap(r, "base_costs", old.BaseCosts, new.BaseCosts)
	diffFloatMap(r, "severity_multipliers", old.SeverityMultipliers, new.SeverityMultipliers)
	diffFloatMap(r, "damage_type_multipliers", old.DamageTypeMultipliers, new.DamageTypeMultipliers)

	r.HasChanges = len(r.Changes) > 0
	return r
}

func diffInt(r *DiffResult, field string, old, new int, higherIsStricter bool) {
	if old != new {
		r.Changes = append(r.Changes, Change{
			Field:   field,
			Old:     fmt.Sprintf("%d", old),
			New:     fmt.Sprintf("%d", new),
			Comment: strictness(float64(old), float64(new), higherIsStricter),
		})
	}
}

func diffCents(r *DiffResult, field string, old, new int64, higherIsStricter bool) {
	if old != new {
		r.Changes = append(r.Changes, Change{
			Field:   field,
			Old:     fmt.Sprintf("%d", old),
			New:     fmt.Sprintf("%d", new),
			Comment: strictness(float64(old), float64(new), higherIsStricter),
		})
	}
}

func diffFloat(r *DiffResult, field string, old, new float64, higherIsStricter bool) {
	if old != new {
		r.Changes = append(r.Changes, Change{
			Field:   field,
			Old:     fmt.Sprintf("%g", old),
			New:     fmt.Sprintf("%g", new),
			Comment: strictness(old, new, higherIsStricter),
		})
	}
}

// strictness annotates a threshold move. Higher-is-stricter fields (e.g.
// min_confidence) get "stricter" when raised; lower-is-stricter fields
// (e.g. max_cost: lower threshold = fewer fast-tracks) when lowered.
func strictness(old, new float64, higherIsStricter bool) string {
	if higherIsStricter {
		if new > old {
			return "stricter"
		}
		return "looser"
	}
	if new < old {
		return "stricter"
	}
	return "looser"
}

func diffCentsMap(r *DiffResult, section string, old, new map[string]int64) {
	for _, k := range sortedKeys(old, new) {
		ov, inOld := old[k]
		nv, inNew := new[k]
		switch {
		case inOld && !inNew:
			r.Changes = append(r.Changes, Change{Field: section + "." + k, Old: fmt.Sprintf("%d", ov), Comment: "removed"})
		case !inOld && inNew:
			r.Changes = append(r.Changes, Change{Field: section + "." + k, New: fmt.Sprintf("%d", nv), Comment: "added"})
		case ov != nv:
			r.Changes = append(r.Changes, Change{Field: section + "." + k, Old: fmt.Sprintf("%d", ov), New: fmt.Sprintf("%d", nv)})
		}
	}
}

func diffFloatMap(r *DiffResult, section string, old, new map[string]float64) {
	for _, k := range sortedFloatKeys(old, new) {
		ov, inOld := old[k]
		nv, inNew := new[k]
		switch {
		case inOld && !inNew:
			r.Changes = append(r.Changes, Change{Field: section + "." + k, Old: fmt.Sprintf("%g", ov), Comment: "removed"})
		case !inOld && inNew:
			r.Changes = append(r.Changes, Change{Field: section + "." + k, New: fmt.Sprintf("%g", nv), Comment: "added"})
		case ov != nv:
			r.Changes = append(r.Changes, Change{Field: section + "." + k, Old: fmt.Sprintf("%g", ov), New: fmt.Sprintf("%g", nv)})
		}
	}
}

func sortedKeys(ms ...map[string]int64) []string {
	set := make(map[string]bool)
	for _, m := range ms {
		for k := range m {
			set[k] = true
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFloatKeys(ms ...map[string]float64) []string {
	set := make(map[string]bool)
	for _, m := range ms {
		for k := range m {
			set[k] = true
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
