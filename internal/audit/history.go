package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// HistoryFilter holds filtering criteria for claim history.
type HistoryFilter struct {
	ClaimID string // empty = all claims
	From    time.Time
	To      time.Time
}

// HistorySummary holds decision counts for a set of audit entries.
type HistorySummary struct {
	Total           int    `json:"total"`
	FastTrackCount  int    `json:"fast_track_count"`
	ManualCount     int    `json:"manual_count"`
	SeniorCount     int    `json:"senior_count"`
	StructuralCount int    `json:"structural_count"`
	OverrideCount   int    `json:"override_count"`
	MaxExposure     int64  `json:"max_exposure"`
	FirstTimestamp  string `json:"first_timestamp"`
	LastTimestamp   string `json:"last_timestamp"`
}

// HistoryResult holds filtered entries and their summary.
type HistoryResult struct {
	ClaimID string         `json:"claim_id,omitempty"`
	Entries []AuditEntry   `json:"entries"`
	Summary HistorySummary `json:"summary"`
}

// History reads the audit log and returns entries matching the filter.
// Malformed lines are skipped; Verify reports them.
func History(path string, filter HistoryFilter) (*HistoryResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	result := &HistoryResult{ClaimID: filter.ClaimID}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry AuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}

		if filter.ClaimID != "" && entry.ClaimID != filter.ClaimID {
			continue
		}

		if !filter.From.IsZero() || !filter.To.IsZero() {
			ts, err := time.Parse(TimestampFormat, entry.Timestamp)
			if err != nil {
				continue
			}
			if !filter.From.IsZero() && ts.Before(filter.From) {
				continue
			}
			if !filter.To.IsZero() && ts.After(filter.To) {
				continue
			}
		}

		result.Entries = append(result.Entries, entry)
		updateSummary(&result.Summary, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}

	return result, nil
}

func updateSummary(s *HistorySummary, entry AuditEntry) {
	s.Total++

	switch entry.Recommendation {
	case "FAST_TRACK_REVIEW":
		s.FastTrackCount++
	case "MANUAL_REVIEW":
		s.ManualCount++
	case "ESCALATE_SENIOR":
		s.SeniorCount++
	case "ESCALATE_STRUCTURAL":
		s.StructuralCount++
	}

	if entry.Event == "override" {
		s.OverrideCount++
	}

	if entry.TotalMax > s.MaxExposure {
		s.MaxExposure = entry.TotalMax
	}

	if s.FirstTimestamp == "" {
		s.FirstTimestamp = entry.Timestamp
	}
	s.LastTimestamp = entry.Timestamp
}
