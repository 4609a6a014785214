package audit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const separator = "──────────────────────────────────────────────────────────────────"

// FormatTimeline renders a HistoryResult as a human-readable text timeline.
func FormatTimeline(result *HistoryResult) string {
	if len(result.Entries) == 0 {
		if result.ClaimID != "" {
			return fmt.Sprintf("Claim: %s | No entries found.\n", result.ClaimID)
		}
		return "No entries found.\n"
	}

	var b strings.Builder

	first := formatDateRange(result.Summary.FirstTimestamp)
	last := formatTimeOnly(result.Summary.LastTimestamp)
	if result.ClaimID != "" {
		b.WriteString(fmt.Sprintf("Claim: %s | %s–%s UTC\n", result.ClaimID, first, last))
	} else {
		b.WriteString(fmt.Sprintf("Audit log | %s–%s UTC\n", first, last))
	}
	b.WriteString(separator + "\n")

	for _, e := range result.Entries {
		ts := formatTimeOnly(e.Timestamp)
		claim := truncate(e.ClaimID, 18)
		rec := truncate(e.Recommendation, 20)
		exposure := fmt.Sprintf("$%d.%02d", e.TotalMax/100, e.TotalMax%100)

		tag := ""
		if e.Event == "override" {
			tag = "  [override]"
		}

		b.WriteString(fmt.Sprintf("%-10s %-18s %-20s %-14s fraud=%.2f%s\n",
			ts, claim, rec, exposure, e.FraudRisk, tag))
	}

	b.WriteString(separator + "\n")
	b.WriteString(formatSummary(result.Summary))

	return b.String()
}

// FormatJSON renders a HistoryResult as indented JSON.
func FormatJSON(result *HistoryResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal history result: %w", err)
	}
	return string(data), nil
}

func formatDateRange(ts string) string {
	t, err := time.Parse(TimestampFormat, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatTimeOnly(ts string) string {
	t, err := time.Parse(TimestampFormat, ts)
	if err != nil {
		return ts
	}
	return t.Format("15:04:05")
}

func formatSummary(s HistorySummary) string {
	parts := []string{}
	if s.FastTrackCount > 0 {
		parts = append(parts, fmt.Sprintf("%d fast-track", s.FastTrackCount))
	}
	if s.ManualCount > 0 {
		parts = append(parts, fmt.Sprintf("%d manual", s.ManualCount))
	}
	if s.SeniorCount > 0 {
		parts = append(parts, fmt.Sprintf("%d senior", s.SeniorCount))
	}
	if s.StructuralCount > 0 {
		parts = append(parts, fmt.Sprintf("%d structural", s.StructuralCount))
	}
	if s.OverrideCount > 0 {
		parts = append(parts, fmt.Sprintf("%d override", s.OverrideCount))
	}

	return fmt.Sprintf("Summary: %s | Max exposure: $%d.%02d\n",
		strings.Join(parts, ", "), s.MaxExposure/100, s.MaxExposure%100)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
