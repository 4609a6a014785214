package model

import "strings"

// Severity classifies damage intensity for a single part.
type Severity string

const (
	SeverityMinor      Severity = "minor"
	SeverityModerate   Severity = "moderate"
	SeveritySevere     Severity = "severe"
	SeverityReplace    Severity = "replace"
	SeverityStructural Severity = "structural"
)

// SeverityScore maps known severities to a comparable scale used for
// damage-spread analysis. Unknown severities score as moderate.
var SeverityScore = map[Severity]float64{
	SeverityMinor:      1,
	SeverityModerate:   2,
	SeveritySevere:     3,
	SeverityReplace:    3.5,
	SeverityStructural: 4,
}

// NormalizeSeverity lowercases and trims a raw severity string.
// Unknown values are returned as-is (lowercased) so callers can degrade
// to neutral multipliers instead of erroring.
func NormalizeSeverity(raw string) Severity {
	return Severity(strings.ToLower(strings.TrimSpace(raw)))
}

// KnownSeverity reports whether s is one of the closed severity set.
func KnownSeverity(s Severity) bool {
	switch s {
	case SeverityMinor, SeverityModerate, SeveritySevere, SeverityReplace, SeverityStructural:
		return true
	}
	return false
}

// Well-known part identifiers. Free-text part IDs are tolerated everywhere;
// these constants exist so callers and config tables agree on spelling.
const (
	PartFrontBumper  = "front_bumper"
	PartRearBumper   = "rear_bumper"
	PartHood         = "hood"
	PartTrunk        = "trunk"
	PartDoor         = "door"
	PartFender       = "fender"
	PartQuarterPanel = "quarter_panel"
	PartRoof         = "roof"
	PartWindshield   = "windshield"
	PartHeadlight    = "headlight"
	PartTaillight    = "taillight"
	PartGrille       = "grille"
	PartMirror       = "mirror"
	PartWheel        = "wheel"
	PartFrame        = "frame"
)

// NormalizePartID lowercases a part identifier for table lookups.
func NormalizePartID(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// DamageType refines a part's damage with a type, its own severity, and the
// affected surface area. AreaPercentage is nil when the detector did not
// report one.
type DamageType struct {
	Type           string   `json:"type"`
	Severity       string   `json:"severity,omitempty"`
	AreaPercentage *float64 `json:"area_percentage,omitempty"`
}

// DamagedPart is one detected or asserted damage instance.
// EstimatedCostMin/Max are integer cents; nil means the detector supplied
// no estimate and the cost estimator must derive one.
type DamagedPart struct {
	PartID           string       `json:"part_id"`
	PartLabel        string       `json:"part_label"`
	Severity         string       `json:"severity"`
	Confidence       float64      `json:"confidence"`
	EstimatedCostMin *int64       `json:"estimated_cost_min,omitempty"`
	EstimatedCostMax *int64       `json:"estimated_cost_max,omitempty"`
	DamageTypes      []DamageType `json:"damage_types,omitempty"`
}

// HasCostRange reports whether the part carries an internally consistent
// caller-supplied cost range. Inverted ranges (max < min) do not count.
func (p DamagedPart) HasCostRange() bool {
	return p.EstimatedCostMin != nil && p.EstimatedCostMax != nil &&
		*p.EstimatedCostMax >= *p.EstimatedCostMin
}

// Label returns the human-readable name, falling back to the part ID.
func (p DamagedPart) Label() string {
	if p.PartLabel != "" {
		return p.PartLabel
	}
	return p.PartID
}

// PartFromMap creates a DamagedPart from a raw map with defensive coercion.
// Missing or mistyped fields fall back to zero values.
func PartFromMap(m map[string]any) DamagedPart {
	var p DamagedPart
	if m == nil {
		return p
	}

	if s, ok := m["part_id"].(string); ok {
		p.PartID = s
	}
	if s, ok := m["part_label"].(string); ok {
		p.PartLabel = s
	}
	if s, ok := m["severity"].(string); ok {
		p.Severity = s
	}
	p.Confidence = toFloat(m["confidence"])

	if v, ok := m["estimated_cost_min"]; ok {
		c := toCents(v)
		p.EstimatedCostMin = &c
	}
	if v, ok := m["estimated_cost_max"]; ok {
		c := toCents(v)
		p.EstimatedCostMax = &c
	}

	if dts, ok := m["damage_types"].([]any); ok {
		for _, raw := range dts {
			dm, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			var dt DamageType
			if s, ok := dm["type"].(string); ok {
				dt.Type = s
			}
			if s, ok := dm["severity"].(string); ok {
				dt.Severity = s
			}
			if v, ok := dm["area_percentage"]; ok {
				a := toFloat(v)
				dt.AreaPercentage = &a
			}
			p.DamageTypes = append(p.DamageTypes, dt)
		}
	}

	return p
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func toCents(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}
