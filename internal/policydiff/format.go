package policydiff

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatText renders the diff as a human-readable report.
func FormatText(r *DiffResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Policy diff: %s -> %s\n", r.OldPath, r.NewPath)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if !r.HasChanges {
		b.WriteString("No changes.\n")
		return b.String()
	}

	sections := []struct {
		title  string
		prefix string
	}{
		{"Routing thresholds", "fast_track."},
		{"Escalation", "escalation."},
		{"Fraud scoring", "fraud."},
		{"Compliance", "compliance."},
		{"Override detection", "override."},
		{"Base costs", "base_costs."},
		{"Severity multipliers", "severity_multipliers."},
		{"Damage type multipliers", "damage_type_multipliers."},
	}

	seen := make(map[int]bool)
	for _, s := range sections {
		var lines []string
		for i, c := range r.Changes {
			if strings.HasPrefix(c.Field, s.prefix) {
				seen[i] = true
				lines = append(lines, formatChange(c))
			}
		}
		if len(lines) > 0 {
			fmt.Fprintf(&b, "%s:\n", s.title)
			for _, l := range lines {
				b.WriteString("  " + l + "\n")
			}
			b.WriteString("\n")
		}
	}

	var rest []string
	for i, c := range r.Changes {
		if !seen[i] {
			rest = append(rest, formatChange(c))
		}
	}
	if len(rest) > 0 {
		b.WriteString("Other:\n")
		for _, l := range rest {
			b.WriteString("  " + l + "\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%d change(s) total\n", len(r.Changes))
	return b.String()
}

func formatChange(c Change) string {
	var s string
	switch {
	case c.Old == "":
		s = fmt.Sprintf("%s: (none) -> %s", c.Field, c.New)
	case c.New == "":
		s = fmt.Sprintf("%s: %s -> (none)", c.Field, c.Old)
	default:
		s = fmt.Sprintf("%s: %s -> %s", c.Field, c.Old, c.New)
	}
	if c.Comment != "" {
		s += fmt.Sprintf("  [%s]", c.Comment)
	}
	return s
}

// FormatJSON renders the diff as indented JSON.
func FormatJSON(r *DiffResult) (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal diff: %w", err)
	}
	return string(out), nil
}
