package policy

import (
	"strings"
	"testing"

	"github.com/ppiankov/claimgate/internal/model"
)

func TestValidateCleanAssessment(t *testing.T) {
	ev, err := Evaluate([]model.DamagedPart{
		{PartID: "door", Severity: "moderate", Confidence: 0.9},
	}, fullContext(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if problems := ValidateAssessment(ev.Assessment); len(problems) != 0 {
		t.Errorf("expected clean assessment, got %v", problems)
	}
}

func TestValidateEmptyParts(t *testing.T) {
	problems := ValidateAssessment(model.Assessment{})

	if len(problems) != 1 || !strings.Contains(problems[0], "no damaged parts") {
		t.Errorf("expected empty-parts problem, got %v", problems)
	}
}

func TestValidateConfidenceOutOfRange(t *testing.T) {
	a := model.Assessment{
		DamagedParts: []model.DamagedPart{
			{PartID: "door", Severity: "moderate", Confidence: 1.4,
				EstimatedCostMin: cents(1000), EstimatedCostMax: cents(2000)},
		},
	}

	problems := ValidateAssessment(a)
	if len(problems) != 1 || !strings.Contains(problems[0], "confidence") {
		t.Errorf("expected confidence problem, got %v", problems)
	}
}

func TestValidateUnknownSeverity(t *testing.T) {
	a := model.Assessment{
		DamagedParts: []model.DamagedPart{
			{PartID: "door", Severity: "apocalyptic", Confidence: 0.9,
				EstimatedCostMin: cents(1000), EstimatedCostMax: cents(2000)},
		},
	}

	problems := ValidateAssessment(a)
	if len(problems) != 1 || !strings.Contains(problems[0], "unknown severity") {
		t.Errorf("expected severity problem, got %v", problems)
	}
}

func TestValidateMissingAndInvertedRanges(t *testing.T) {
	a := model.Assessment{
		DamagedParts: []model.DamagedPart{
			{PartID: "door", Severity: "moderate", Confidence: 0.9},
			{PartID: "hood", Severity: "moderate", Confidence: 0.9,
				EstimatedCostMin: cents(2000), EstimatedCostMax: cents(1000)},
		},
	}

	problems := ValidateAssessment(a)
	if len(problems) != 2 {
		t.Fatalf("expected two problems, got %v", problems)
	}
	if !strings.Contains(problems[0], "missing estimated cost range") {
		t.Errorf("expected missing-range problem first, got %q", problems[0])
	}
	if !strings.Contains(problems[1], "inverted cost range") {
		t.Errorf("expected inverted-range problem, got %q", problems[1])
	}
}

func TestValidateInvertedTotals(t *testing.T) {
	a := model.Assessment{
		DamagedParts: []model.DamagedPart{
			{PartID: "door", Severity: "moderate", Confidence: 0.9,
				EstimatedCostMin: cents(1000), EstimatedCostMax: cents(2000)},
		},
		TotalMin: 5000,
		TotalMax: 3000,
	}

	problems := ValidateAssessment(a)
	if len(problems) != 1 || !strings.Contains(problems[0], "inverted claim totals") {
		t.Errorf("expected totals problem, got %v", problems)
	}
}

func TestRequiresSeniorApproval(t *testing.T) {
	cases := []struct {
		name string
		a    model.Assessment
		want bool
	}{
		{"fast track", model.Assessment{Recommendation: model.Recommendation{Code: model.CodeFastTrackReview}}, false},
		{"manual", model.Assessment{Recommendation: model.Recommendation{Code: model.CodeManualReview}}, false},
		{"senior", model.Assessment{Recommendation: model.Recommendation{Code: model.CodeEscalateSenior}}, true},
		{"structural", model.Assessment{Recommendation: model.Recommendation{Code: model.CodeEscalateStructural}}, true},
		{"fraudulent manual", model.Assessment{
			Recommendation: model.Recommendation{Code: model.CodeManualReview},
			FraudRiskScore: 0.6,
		}, true},
	}

	for _, c := range cases {
		if got := RequiresSeniorApproval(c.a); got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestShouldAutoEscalate(t *testing.T) {
	structural := model.Assessment{Flags: []model.RiskFlag{model.FlagStructuralDamage}}
	if !ShouldAutoEscalate(structural) {
		t.Error("structural damage must auto-escalate")
	}

	highFraud := model.Assessment{FraudRiskScore: 0.7}
	if !ShouldAutoEscalate(highFraud) {
		t.Error("fraud score at 0.7 must auto-escalate")
	}

	ordinary := model.Assessment{FraudRiskScore: 0.3}
	if ShouldAutoEscalate(ordinary) {
		t.Error("ordinary claim must not auto-escalate")
	}
}
