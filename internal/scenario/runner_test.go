package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/claimgate/internal/policy"
)

func fastTrackCase(name string) Case {
	return Case{
		Name: name,
		Parts: []ScenarioPart{
			{PartID: "rear_bumper", Severity: "moderate", Confidence: 0.92},
		},
		Context: ScenarioContext{PhotoCount: 5},
		Expect:  "FAST_TRACK_REVIEW",
	}
}

func TestRunAllPass(t *testing.T) {
	s := &Scenario{
		Name: "routing basics",
		Cases: []Case{
			fastTrackCase("clean bumper"),
			{
				Name: "structural frame",
				Parts: []ScenarioPart{
					{PartID: "frame", Severity: "structural", Confidence: 0.9},
				},
				Context:     ScenarioContext{PhotoCount: 5},
				Expect:      "escalate_structural",
				ExpectFlags: []string{"structural_damage"},
			},
		},
	}

	result := Run(s, policy.DefaultConfig())
	if result.Failed != 0 {
		t.Fatalf("expected all cases to pass: %+v", result.Cases)
	}
	if result.Passed != 2 || result.Total != 2 {
		t.Errorf("expected 2/2, got %d/%d", result.Passed, result.Total)
	}
}

func TestRunWrongExpectation(t *testing.T) {
	s := &Scenario{
		Name:  "wrong expect",
		Cases: []Case{fastTrackCase("bumper")},
	}
	s.Cases[0].Expect = "ESCALATE_SENIOR"

	result := Run(s, policy.DefaultConfig())
	if result.Failed != 1 {
		t.Fatalf("expected 1 failure, got %d", result.Failed)
	}
	c := result.Cases[0]
	if c.Passed || c.Expected != "ESCALATE_SENIOR" || c.Actual != "FAST_TRACK_REVIEW" {
		t.Errorf("unexpected case result: %+v", c)
	}
}

func TestRunMissingExpectedFlag(t *testing.T) {
	c := fastTrackCase("bumper")
	c.ExpectFlags = []string{"STRUCTURAL_DAMAGE"}
	// A fast-track case never carries the structural flag
	c.Expect = "FAST_TRACK_REVIEW"

	result := Run(&Scenario{Name: "flags", Cases: []Case{c}}, policy.DefaultConfig())
	if result.Failed != 1 {
		t.Fatalf("expected flag mismatch to fail, got %+v", result.Cases[0])
	}
	if !strings.Contains(result.Cases[0].Reason, "did not include") {
		t.Errorf("expected flag mismatch reason, got %q", result.Cases[0].Reason)
	}
}

func TestLoadAndRun(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "routing.yaml")

	yaml := `name: routing
cases:
  - name: fast track bumper
    parts:
      - part_id: rear_bumper
        severity: moderate
        confidence: 0.92
    context:
      photo_count: 5
    expect: FAST_TRACK_REVIEW
  - name: low confidence
    parts:
      - part_id: door
        severity: moderate
        confidence: 0.4
    context:
      photo_count: 5
    expect: ESCALATE_SENIOR
    expect_flags: [LOW_CONFIDENCE]
`
	if err := os.WriteFile(scenarioPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	// Missing policy path falls back to defaults
	result, err := LoadAndRun(scenarioPath, filepath.Join(dir, "no-policy.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed != 0 {
		t.Fatalf("expected all cases to pass: %+v", result.Cases)
	}
	if result.File != scenarioPath || result.Name != "routing" {
		t.Errorf("unexpected result metadata: file=%s name=%s", result.File, result.Name)
	}
}

func TestLoadAndRunBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	os.WriteFile(path, []byte("cases: [unclosed"), 0644)

	if _, err := LoadAndRun(path, ""); err == nil {
		t.Error("expected error for malformed scenario file")
	}
}

func TestFormatText(t *testing.T) {
	pass := Run(&Scenario{Name: "ok", Cases: []Case{fastTrackCase("bumper")}}, policy.DefaultConfig())

	failCase := fastTrackCase("bumper")
	failCase.Expect = "MANUAL_REVIEW"
	fail := Run(&Scenario{Name: "bad", Cases: []Case{failCase}}, policy.DefaultConfig())

	out := FormatText([]*RunResult{pass, fail})
	for _, want := range []string{
		"Checking 2 scenario files",
		"PASS  ok (1/1)",
		"FAIL  bad (0/1)",
		"expected MANUAL_REVIEW, got FAST_TRACK_REVIEW",
		"1 of 2 cases passed.",
		"1 of 2 scenarios failed.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
