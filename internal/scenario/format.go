package scenario

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatText renders scenario results the way CI expects to read them:
// one PASS/FAIL line per file, failing cases indented beneath, and a
// closing tally across all files.
func FormatText(results []*RunResult) string {
	var b strings.Builder

	files := len(results)
	if files == 1 {
		b.WriteString("Checking 1 scenario file...\n\n")
	} else {
		fmt.Fprintf(&b, "Checking %d scenario files...\n\n", files)
	}

	cases, passed, failedFiles := 0, 0, 0
	for _, r := range results {
		cases += r.Total
		passed += r.Passed

		if r.Failed == 0 {
			fmt.Fprintf(&b, "  PASS  %s (%d/%d)\n", r.Name, r.Passed, r.Total)
			continue
		}

		failedFiles++
		fmt.Fprintf(&b, "  FAIL  %s (%d/%d)\n", r.Name, r.Passed, r.Total)
		for _, c := range r.Cases {
			if c.Passed {
				continue
			}
			name := c.Name
			if name == "" {
				name = fmt.Sprintf("case %d", c.Index)
			}
			fmt.Fprintf(&b, "    FAIL  %-30s expected %s, got %s\n", name, c.Expected, c.Actual)
		}
	}

	fmt.Fprintf(&b, "\n%d of %d cases passed.", passed, cases)
	if failedFiles > 0 {
		fmt.Fprintf(&b, " %d of %d scenarios failed.", failedFiles, files)
	}
	b.WriteString("\n")

	return b.String()
}

// FormatJSON renders run results as indented JSON.
func FormatJSON(results []*RunResult) (string, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	return string(data), nil
}
