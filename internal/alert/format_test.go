package alert

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatGeneric(t *testing.T) {
	body, err := FormatPayload("generic", sampleEvent())
	if err != nil {
		t.Fatal(err)
	}
	var decoded AlertEvent
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.ClaimID != "CLM-1" || decoded.TotalMax != 650000 {
		t.Errorf("generic payload did not round-trip: %+v", decoded)
	}
}

func TestFormatSlack(t *testing.T) {
	body, err := FormatPayload("slack", sampleEvent())
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["blocks"]; !ok {
		t.Fatal("slack payload has no blocks")
	}
	s := string(body)
	for _, want := range []string{"ESCALATE_SENIOR", "CLM-1", "$6500.00", "senior_adjuster"} {
		if !strings.Contains(s, want) {
			t.Errorf("slack payload missing %q", want)
		}
	}
}

func TestFormatPagerDutySeverity(t *testing.T) {
	cases := []struct {
		priority int
		want     string
	}{
		{5, "critical"},
		{4, "error"},
		{3, "warning"},
		{2, "info"},
	}

	for _, tc := range cases {
		event := sampleEvent()
		event.Priority = tc.priority

		body, err := FormatPayload("pagerduty", event)
		if err != nil {
			t.Fatal(err)
		}
		var decoded struct {
			EventAction string `json:"event_action"`
			Payload     struct {
				Severity string `json:"severity"`
				Source   string `json:"source"`
			} `json:"payload"`
		}
		if err := json.Unmarshal(body, &decoded); err != nil {
			t.Fatal(err)
		}
		if decoded.Payload.Severity != tc.want {
			t.Errorf("priority %d: expected severity %s, got %s", tc.priority, tc.want, decoded.Payload.Severity)
		}
		if decoded.EventAction != "trigger" || decoded.Payload.Source != "claimgate" {
			t.Errorf("unexpected pagerduty envelope: %+v", decoded)
		}
	}
}

func TestFormatUnknownFallsBackToGeneric(t *testing.T) {
	generic, _ := FormatPayload("generic", sampleEvent())
	unknown, _ := FormatPayload("smoke-signal", sampleEvent())
	if string(generic) != string(unknown) {
		t.Error("unknown format should fall back to generic")
	}
}
