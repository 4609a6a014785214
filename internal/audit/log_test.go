package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testEntry(claimID, rec string, totalMax int64) AuditEntry {
	return AuditEntry{
		ClaimID:        claimID,
		Event:          "evaluation",
		Recommendation: rec,
		AssignTo:       "agent",
		TotalMin:       totalMax / 2,
		TotalMax:       totalMax,
		Confidence:     0.9,
		PolicyHash:     "sha256:test",
	}
}

func TestRecordAndVerifyChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	log, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := log.Record(testEntry("CLM-1", "FAST_TRACK_REVIEW", 78000)); err != nil {
			t.Fatal(err)
		}
	}
	log.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain: %s (line %d)", result.Error, result.ErrorLine)
	}
	if result.Lines != 5 {
		t.Errorf("expected 5 lines, got %d", result.Lines)
	}
}

func TestFirstEntryReferencesGenesis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	log, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := log.Record(testEntry("CLM-1", "MANUAL_REVIEW", 10000)); err != nil {
		t.Fatal(err)
	}
	log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry AuditEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.PrevHash != GenesisHash {
		t.Errorf("expected genesis prev_hash, got %s", entry.PrevHash)
	}
	if entry.Timestamp == "" {
		t.Error("expected timestamp to be stamped")
	}
}

func TestReopenContinuesChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	log, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	log.Record(testEntry("CLM-1", "FAST_TRACK_REVIEW", 78000))
	log.Close()

	// Reopen and append: the chain must continue, not restart
	log, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	log.Record(testEntry("CLM-2", "MANUAL_REVIEW", 120000))
	log.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("chain broken after reopen: %s", result.Error)
	}
	if result.Lines != 2 {
		t.Errorf("expected 2 lines, got %d", result.Lines)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	log, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	log.Record(testEntry("CLM-1", "FAST_TRACK_REVIEW", 78000))
	log.Record(testEntry("CLM-2", "MANUAL_REVIEW", 120000))
	log.Record(testEntry("CLM-3", "ESCALATE_SENIOR", 600000))
	log.Close()

	// Inflate the total on the middle line
	data, _ := os.ReadFile(path)
	tampered := strings.Replace(string(data), `"total_max":120000`, `"total_max":999999`, 1)
	if tampered == string(data) {
		t.Fatal("tamper target not found in log")
	}
	os.WriteFile(path, []byte(tampered), 0600)

	result := Verify(path)
	if result.Valid {
		t.Fatal("expected verification failure after tampering")
	}
	if result.ErrorLine != 3 {
		t.Errorf("expected break detected at line 3, got %d", result.ErrorLine)
	}
}

func TestVerifyDetectsDeletedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	log, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	log.Record(testEntry("CLM-1", "FAST_TRACK_REVIEW", 78000))
	log.Record(testEntry("CLM-2", "MANUAL_REVIEW", 120000))
	log.Record(testEntry("CLM-3", "ESCALATE_SENIOR", 600000))
	log.Close()

	// Drop the middle line
	f, _ := os.Open(path)
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	f.Close()
	os.WriteFile(path, []byte(lines[0]+"\n"+lines[2]+"\n"), 0600)

	result := Verify(path)
	if result.Valid {
		t.Fatal("expected verification failure after deletion")
	}
}

func TestDefaultEventIsEvaluation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	log, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	entry := testEntry("CLM-1", "MANUAL_REVIEW", 10000)
	entry.Event = ""
	log.Record(entry)
	log.Close()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"event":"evaluation"`) {
		t.Errorf("expected default event, got %s", data)
	}
}
