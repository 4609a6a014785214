package model

import "testing"

func TestNormalizeSeverity(t *testing.T) {
	cases := []struct {
		in   string
		want Severity
	}{
		{"minor", SeverityMinor},
		{"  Moderate ", SeverityModerate},
		{"SEVERE", SeveritySevere},
		{"Replace", SeverityReplace},
		{"structural", SeverityStructural},
		{"weird", Severity("weird")},
		{"", Severity("")},
	}
	for _, c := range cases {
		if got := NormalizeSeverity(c.in); got != c.want {
			t.Errorf("NormalizeSeverity(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestKnownSeverity(t *testing.T) {
	for _, s := range []Severity{SeverityMinor, SeverityModerate, SeveritySevere, SeverityReplace, SeverityStructural} {
		if !KnownSeverity(s) {
			t.Errorf("expected %q to be known", s)
		}
	}
	if KnownSeverity("weird") {
		t.Error("unexpected known severity")
	}
}

func TestHasCostRange(t *testing.T) {
	lo, hi := int64(1000), int64(2000)

	full := DamagedPart{EstimatedCostMin: &lo, EstimatedCostMax: &hi}
	if !full.HasCostRange() {
		t.Error("expected valid range")
	}

	equal := DamagedPart{EstimatedCostMin: &lo, EstimatedCostMax: &lo}
	if !equal.HasCostRange() {
		t.Error("min == max is a valid range")
	}

	inverted := DamagedPart{EstimatedCostMin: &hi, EstimatedCostMax: &lo}
	if inverted.HasCostRange() {
		t.Error("inverted range must not count")
	}

	missing := DamagedPart{EstimatedCostMin: &lo}
	if missing.HasCostRange() {
		t.Error("half a range must not count")
	}
}

func TestLabelFallsBackToPartID(t *testing.T) {
	withLabel := DamagedPart{PartID: "rear_bumper", PartLabel: "Rear Bumper"}
	if withLabel.Label() != "Rear Bumper" {
		t.Errorf("expected label, got %q", withLabel.Label())
	}

	bare := DamagedPart{PartID: "rear_bumper"}
	if bare.Label() != "rear_bumper" {
		t.Errorf("expected part ID fallback, got %q", bare.Label())
	}
}

func TestPartFromMap(t *testing.T) {
	p := PartFromMap(map[string]any{
		"part_id":            "hood",
		"part_label":         "Hood",
		"severity":           "severe",
		"confidence":         0.87,
		"estimated_cost_min": float64(40000), // JSON numbers decode as float64
		"estimated_cost_max": 65000,
		"damage_types": []any{
			map[string]any{"type": "dent", "area_percentage": 30},
			"not a map",
		},
	})

	if p.PartID != "hood" || p.PartLabel != "Hood" || p.Severity != "severe" {
		t.Errorf("string fields wrong: %+v", p)
	}
	if p.Confidence != 0.87 {
		t.Errorf("confidence wrong: %v", p.Confidence)
	}
	if p.EstimatedCostMin == nil || *p.EstimatedCostMin != 40000 {
		t.Errorf("cost min wrong: %v", p.EstimatedCostMin)
	}
	if p.EstimatedCostMax == nil || *p.EstimatedCostMax != 65000 {
		t.Errorf("cost max wrong: %v", p.EstimatedCostMax)
	}
	if len(p.DamageTypes) != 1 || p.DamageTypes[0].Type != "dent" {
		t.Errorf("damage types wrong: %+v", p.DamageTypes)
	}
	if p.DamageTypes[0].AreaPercentage == nil || *p.DamageTypes[0].AreaPercentage != 30 {
		t.Errorf("area percentage wrong: %v", p.DamageTypes[0].AreaPercentage)
	}
}

func TestPartFromMapMistypedFields(t *testing.T) {
	p := PartFromMap(map[string]any{
		"part_id":    42,
		"severity":   []string{"severe"},
		"confidence": "very confident",
	})

	if p.PartID != "" || p.Severity != "" || p.Confidence != 0 {
		t.Errorf("mistyped fields should fall back to zero values: %+v", p)
	}
	if p.EstimatedCostMin != nil || p.EstimatedCostMax != nil {
		t.Errorf("missing costs should stay nil: %+v", p)
	}
}

func TestPartFromMapNil(t *testing.T) {
	p := PartFromMap(nil)
	if p.PartID != "" || p.Confidence != 0 {
		t.Errorf("nil map should yield zero part, got %+v", p)
	}
}

func TestHasFlag(t *testing.T) {
	a := Assessment{Flags: []RiskFlag{FlagStructuralDamage, FlagHighExposure}}

	if !a.HasFlag(FlagHighExposure) {
		t.Error("expected flag present")
	}
	if a.HasFlag(FlagLowConfidence) {
		t.Error("unexpected flag")
	}
}
