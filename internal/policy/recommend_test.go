package policy

import (
	"testing"

	"github.com/ppiankov/claimgate/internal/model"
)

func TestStructuralAlwaysDominates(t *testing.T) {
	// Even a perfect, cheap claim escalates when structural damage is flagged
	rec := Recommend(0.99, 10000, []model.RiskFlag{model.FlagStructuralDamage}, DefaultConfig())

	if rec.Code != model.CodeEscalateStructural {
		t.Errorf("expected ESCALATE_STRUCTURAL, got %s", rec.Code)
	}
	if rec.Priority != 5 {
		t.Errorf("expected priority 5, got %d", rec.Priority)
	}
}

func TestFastTrackHappyPath(t *testing.T) {
	rec := Recommend(0.92, 78000, nil, DefaultConfig())

	if rec.Code != model.CodeFastTrackReview {
		t.Errorf("expected FAST_TRACK_REVIEW, got %s", rec.Code)
	}
}

func TestFastTrackConfidenceBoundary(t *testing.T) {
	cfg := DefaultConfig()

	at := Recommend(cfg.FastTrack.MinConfidence, 100000, nil, cfg)
	if at.Code != model.CodeFastTrackReview {
		t.Errorf("confidence exactly at minimum should fast-track, got %s", at.Code)
	}

	under := Recommend(cfg.FastTrack.MinConfidence-0.01, 100000, nil, cfg)
	if under.Code != model.CodeManualReview {
		t.Errorf("confidence below minimum should go manual, got %s", under.Code)
	}
}

func TestFastTrackCostBoundary(t *testing.T) {
	cfg := DefaultConfig()

	at := Recommend(0.9, cfg.FastTrack.MaxCost, nil, cfg)
	if at.Code != model.CodeFastTrackReview {
		t.Errorf("cost exactly at maximum should fast-track, got %s", at.Code)
	}

	over := Recommend(0.9, cfg.FastTrack.MaxCost+1, nil, cfg)
	if over.Code != model.CodeManualReview {
		t.Errorf("cost over maximum should go manual, got %s", over.Code)
	}
}

func TestHighExposureFlagDisqualifiesFastTrack(t *testing.T) {
	rec := Recommend(0.95, 100000, []model.RiskFlag{model.FlagHighExposure}, DefaultConfig())

	if rec.Code == model.CodeFastTrackReview {
		t.Error("HIGH_EXPOSURE flag must disqualify fast-track")
	}
}

func TestLowConfidenceFlagDisqualifiesFastTrack(t *testing.T) {
	rec := Recommend(0.95, 100000, []model.RiskFlag{model.FlagLowConfidence}, DefaultConfig())

	if rec.Code == model.CodeFastTrackReview {
		t.Error("LOW_CONFIDENCE flag must disqualify fast-track")
	}
}

func TestMissingAnglesDoesNotDisqualifyFastTrack(t *testing.T) {
	rec := Recommend(0.95, 100000, []model.RiskFlag{model.FlagMissingAngles}, DefaultConfig())

	if rec.Code != model.CodeFastTrackReview {
		t.Errorf("MISSING_ANGLES alone should not block fast-track, got %s", rec.Code)
	}
}

func TestLowConfidenceEscalatesSenior(t *testing.T) {
	rec := Recommend(0.5, 100000, nil, DefaultConfig())

	if rec.Code != model.CodeEscalateSenior {
		t.Errorf("expected ESCALATE_SENIOR for confidence 0.5, got %s", rec.Code)
	}
}

func TestHighExposureEscalatesSenior(t *testing.T) {
	rec := Recommend(0.9, 600000, nil, DefaultConfig())

	if rec.Code != model.CodeEscalateSenior {
		t.Errorf("expected ESCALATE_SENIOR for 600000 exposure, got %s", rec.Code)
	}
}

func TestMiddleGroundGoesManual(t *testing.T) {
	// Confidence between escalation and fast-track thresholds, moderate cost
	rec := Recommend(0.7, 100000, nil, DefaultConfig())

	if rec.Code != model.CodeManualReview {
		t.Errorf("expected MANUAL_REVIEW, got %s", rec.Code)
	}
	if rec.Priority != 3 {
		t.Errorf("expected priority 3, got %d", rec.Priority)
	}
}

func TestRouteForAllCodes(t *testing.T) {
	cases := []struct {
		code     model.RecommendationCode
		assignTo model.AssigneeRole
		priority int
		minutes  int
	}{
		{model.CodeFastTrackReview, model.RoleAgent, 2, 15},
		{model.CodeEscalateStructural, model.RoleStructuralEngineer, 5, 120},
		{model.CodeEscalateSenior, model.RoleSeniorAdjuster, 4, 60},
		{model.CodeManualReview, model.RoleAgent, 3, 30},
	}

	for _, c := range cases {
		r := RouteFor(c.code)
		if r.AssignTo != c.assignTo {
			t.Errorf("%s: expected assignee %s, got %s", c.code, c.assignTo, r.AssignTo)
		}
		if r.Priority != c.priority {
			t.Errorf("%s: expected priority %d, got %d", c.code, c.priority, r.Priority)
		}
		if r.EstimatedTimeMinutes != c.minutes {
			t.Errorf("%s: expected %d minutes, got %d", c.code, c.minutes, r.EstimatedTimeMinutes)
		}
		if len(r.RequiredActions) == 0 {
			t.Errorf("%s: expected required actions", c.code)
		}
	}
}

func TestRouteForUnknownCodeFallsBack(t *testing.T) {
	r := RouteFor("SOMETHING_NEW")

	if r.AssignTo != model.RoleAgent || r.Priority != 3 {
		t.Errorf("unknown code should route like manual review, got %+v", r)
	}
}
