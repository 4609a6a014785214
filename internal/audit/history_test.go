package audit

import (
	"path/filepath"
	"testing"
	"time"
)

func writeTestLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	log, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	log.Record(testEntry("CLM-1", "FAST_TRACK_REVIEW", 78000))
	log.Record(testEntry("CLM-2", "MANUAL_REVIEW", 120000))
	log.Record(testEntry("CLM-1", "ESCALATE_SENIOR", 600000))

	override := testEntry("CLM-1", "ESCALATE_SENIOR", 650000)
	override.Event = "override"
	override.UserID = "adjuster-7"
	log.Record(override)

	return path
}

func TestHistoryAllClaims(t *testing.T) {
	path := writeTestLog(t)

	result, err := History(path, HistoryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(result.Entries))
	}
	s := result.Summary
	if s.Total != 4 {
		t.Errorf("expected total 4, got %d", s.Total)
	}
	if s.FastTrackCount != 1 || s.ManualCount != 1 || s.SeniorCount != 2 {
		t.Errorf("unexpected decision counts: %+v", s)
	}
	if s.OverrideCount != 1 {
		t.Errorf("expected 1 override, got %d", s.OverrideCount)
	}
	if s.MaxExposure != 650000 {
		t.Errorf("expected max exposure 650000, got %d", s.MaxExposure)
	}
	if s.FirstTimestamp == "" || s.LastTimestamp == "" {
		t.Error("expected summary timestamps to be set")
	}
}

func TestHistoryClaimFilter(t *testing.T) {
	path := writeTestLog(t)

	result, err := History(path, HistoryFilter{ClaimID: "CLM-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("expected 3 entries for CLM-1, got %d", len(result.Entries))
	}
	for _, entry := range result.Entries {
		if entry.ClaimID != "CLM-1" {
			t.Errorf("filter leaked entry for %s", entry.ClaimID)
		}
	}
	if result.ClaimID != "CLM-1" {
		t.Errorf("expected result claim ID CLM-1, got %s", result.ClaimID)
	}
}

func TestHistoryDateFilter(t *testing.T) {
	path := writeTestLog(t)

	// All entries were just written; a window ending yesterday excludes them
	past := HistoryFilter{To: time.Now().UTC().Add(-24 * time.Hour)}
	result, err := History(path, past)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("expected no entries before yesterday, got %d", len(result.Entries))
	}

	// A window starting yesterday includes all of them
	recent := HistoryFilter{From: time.Now().UTC().Add(-24 * time.Hour)}
	result, err = History(path, recent)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 4 {
		t.Errorf("expected 4 entries since yesterday, got %d", len(result.Entries))
	}
}

func TestHistoryMissingFile(t *testing.T) {
	_, err := History(filepath.Join(t.TempDir(), "missing.jsonl"), HistoryFilter{})
	if err == nil {
		t.Error("expected error for missing log file")
	}
}
