package claimgate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/policy"
)

func testParts() []model.DamagedPart {
	return []model.DamagedPart{
		{PartID: "rear_bumper", Severity: "moderate", Confidence: 0.92},
	}
}

func TestAssessWithDefaults(t *testing.T) {
	c, err := New(WithConfig(policy.DefaultConfig()))
	if err != nil {
		t.Fatal(err)
	}

	ev, err := c.Assess(testParts(), &model.PolicyContext{ClaimID: "CLM-1", PhotoCount: 5})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Assessment.Recommendation.Code != model.CodeFastTrackReview {
		t.Errorf("expected fast track, got %s", ev.Assessment.Recommendation.Code)
	}
	if ev.Assessment.TotalMax != 78000 {
		t.Errorf("expected total max 78000, got %d", ev.Assessment.TotalMax)
	}
}

func TestNewWithPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("fast_track:\n  min_confidence: 0.95\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := New(WithPolicy(path))
	if err != nil {
		t.Fatal(err)
	}
	if c.PolicyHash() == "" {
		t.Error("expected policy hash for file-backed client")
	}

	// 0.92 confidence no longer clears the raised bar
	ev, err := c.Assess(testParts(), &model.PolicyContext{ClaimID: "CLM-1", PhotoCount: 5})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Assessment.Recommendation.Code == model.CodeFastTrackReview {
		t.Error("expected stricter policy to block fast track")
	}
}

func TestAssessPayload(t *testing.T) {
	c, err := New(WithConfig(policy.DefaultConfig()))
	if err != nil {
		t.Fatal(err)
	}

	ev, err := c.AssessPayload([]byte(`{
		"version": "1",
		"claim_id": "CLM-1",
		"photos": [{"id": "a"}, {"id": "b"}, {"id": "c"}, {"id": "d"}, {"id": "e"}],
		"detections": [
			{"part_id": "rear_bumper", "severity": "moderate", "confidence": 0.92}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if ev.Assessment.Recommendation.Code != model.CodeFastTrackReview {
		t.Errorf("expected fast track, got %s", ev.Assessment.Recommendation.Code)
	}

	if _, err := c.AssessPayload([]byte(`{"detections": []}`)); err == nil {
		t.Error("expected validation error for missing claim_id")
	}
}

func TestOverride(t *testing.T) {
	c, err := New(WithConfig(policy.DefaultConfig()))
	if err != nil {
		t.Fatal(err)
	}

	ev, err := c.Assess(testParts(), &model.PolicyContext{ClaimID: "CLM-1", PhotoCount: 5})
	if err != nil {
		t.Fatal(err)
	}

	after, significant, err := c.Override(ev.Assessment, 0,
		model.DamagedPart{PartID: "frame", Severity: "structural", Confidence: 0.95},
		&model.PolicyContext{ClaimID: "CLM-1", UserID: "adjuster-7"})
	if err != nil {
		t.Fatal(err)
	}
	if !significant {
		t.Error("expected frame correction to be significant")
	}
	if after.Assessment.Recommendation.Code != model.CodeEscalateStructural {
		t.Errorf("expected structural escalation, got %s", after.Assessment.Recommendation.Code)
	}
}

func TestValidate(t *testing.T) {
	c, err := New(WithConfig(policy.DefaultConfig()))
	if err != nil {
		t.Fatal(err)
	}

	bad := model.Assessment{
		DamagedParts:      []model.DamagedPart{{PartID: "door", Severity: "shattered", Confidence: 2.0}},
		OverallConfidence: 2.0,
	}
	if problems := c.Validate(bad); len(problems) == 0 {
		t.Error("expected validation problems")
	}
}
