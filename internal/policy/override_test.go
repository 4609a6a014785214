package policy

import (
	"strings"
	"testing"

	"github.com/ppiankov/claimgate/internal/model"
)

func evaluateFixture(t *testing.T, parts []model.DamagedPart) model.Evaluation {
	t.Helper()
	pctx := &model.PolicyContext{
		ClaimID:      "CLM-2001",
		PhotoCount:   5,
		ModelVersion: "damage-v4.2",
		BatchID:      "batch-9",
	}
	ev, err := Evaluate(parts, pctx, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return ev
}

func TestReplacePartRecomputesEverything(t *testing.T) {
	before := evaluateFixture(t, []model.DamagedPart{
		{PartID: "rear_bumper", Severity: "moderate", Confidence: 0.92},
	})

	after, err := ReplacePart(before.Assessment, 0,
		model.DamagedPart{PartID: "frame", Severity: "structural", Confidence: 0.92},
		&model.PolicyContext{ClaimID: "CLM-2001", PhotoCount: 5}, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if after.Assessment.Recommendation.Code != model.CodeEscalateStructural {
		t.Errorf("expected structural escalation after override, got %s",
			after.Assessment.Recommendation.Code)
	}
	if after.Assessment.TotalMax <= before.Assessment.TotalMax {
		t.Errorf("expected totals to grow, got %d -> %d",
			before.Assessment.TotalMax, after.Assessment.TotalMax)
	}
	if after.Routing.AssignTo != model.RoleStructuralEngineer {
		t.Errorf("expected routing recomputed, got %s", after.Routing.AssignTo)
	}
}

func TestReplacePartPreservesProvenance(t *testing.T) {
	before := evaluateFixture(t, []model.DamagedPart{
		{PartID: "door", Severity: "moderate", Confidence: 0.9},
	})

	after, err := ReplacePart(before.Assessment, 0,
		model.DamagedPart{PartID: "door", Severity: "severe", Confidence: 0.9},
		nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if after.Assessment.Meta.ModelVersion != "damage-v4.2" {
		t.Errorf("model version lost: %q", after.Assessment.Meta.ModelVersion)
	}
	if after.Assessment.Meta.BatchID != "batch-9" {
		t.Errorf("batch ID lost: %q", after.Assessment.Meta.BatchID)
	}
}

func TestReplacePartDoesNotMutateOriginal(t *testing.T) {
	before := evaluateFixture(t, []model.DamagedPart{
		{PartID: "door", Severity: "moderate", Confidence: 0.9},
	})
	originalTotal := before.Assessment.TotalMax

	if _, err := ReplacePart(before.Assessment, 0,
		model.DamagedPart{PartID: "frame", Severity: "structural", Confidence: 0.9},
		nil, DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	if before.Assessment.TotalMax != originalTotal {
		t.Error("original assessment was mutated")
	}
	if before.Assessment.DamagedParts[0].PartID != "door" {
		t.Error("original parts slice was mutated")
	}
}

func TestReplacePartIndexOutOfRange(t *testing.T) {
	before := evaluateFixture(t, []model.DamagedPart{
		{PartID: "door", Severity: "moderate", Confidence: 0.9},
	})

	if _, err := ReplacePart(before.Assessment, 1, model.DamagedPart{}, nil, DefaultConfig()); err == nil {
		t.Error("expected error for index out of range")
	}
	if _, err := ReplacePart(before.Assessment, -1, model.DamagedPart{}, nil, DefaultConfig()); err == nil {
		t.Error("expected error for negative index")
	}

	_, err := ReplacePart(before.Assessment, 7, model.DamagedPart{}, nil, DefaultConfig())
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected out-of-range message, got %v", err)
	}
}

func TestSignificantOverrideAbsoluteDelta(t *testing.T) {
	cfg := DefaultConfig()
	before := model.Assessment{TotalMax: 1000000}
	after := model.Assessment{TotalMax: 1000000 + cfg.Override.SignificantDeltaAbs + 1}

	if !SignificantOverride(before, after, cfg) {
		t.Error("delta past absolute bound must be significant")
	}
}

func TestSignificantOverrideRelativeDelta(t *testing.T) {
	cfg := DefaultConfig()
	// 30% move on a small total: under the absolute bound, over the relative one
	before := model.Assessment{TotalMax: 100000}
	after := model.Assessment{TotalMax: 130000}

	if !SignificantOverride(before, after, cfg) {
		t.Error("30%% move must be significant")
	}
}

func TestInsignificantOverride(t *testing.T) {
	cfg := DefaultConfig()
	before := model.Assessment{TotalMax: 500000}
	after := model.Assessment{TotalMax: 520000}

	// 20000 < 50000 absolute; 4% < 25% relative
	if SignificantOverride(before, after, cfg) {
		t.Error("small move must not be significant")
	}
}

func TestSignificantOverrideZeroBaseline(t *testing.T) {
	cfg := DefaultConfig()
	before := model.Assessment{TotalMax: 0}
	after := model.Assessment{TotalMax: 10000}

	if !SignificantOverride(before, after, cfg) {
		t.Error("any delta from a zero baseline is significant")
	}
	if SignificantOverride(before, model.Assessment{TotalMax: 0}, cfg) {
		t.Error("no delta means not significant")
	}
}

func TestSignificantOverrideDirectionAgnostic(t *testing.T) {
	cfg := DefaultConfig()
	before := model.Assessment{TotalMax: 200000}
	after := model.Assessment{TotalMax: 100000}

	if !SignificantOverride(before, after, cfg) {
		t.Error("large downward correction must be significant")
	}
}
