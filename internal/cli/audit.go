package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimgate/internal/audit"
)

var (
	tailLines     int
	historyClaim  string
	historyFrom   string
	historyTo     string
	historyFormat string
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
	auditCmd.AddCommand(auditHistoryCmd)
	auditTailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "Number of recent entries to show")
	auditHistoryCmd.Flags().StringVar(&historyClaim, "claim", "", "Filter by claim ID")
	auditHistoryCmd.Flags().StringVar(&historyFrom, "from", "", "Start date (YYYY-MM-DD)")
	auditHistoryCmd.Flags().StringVar(&historyTo, "to", "", "End date (YYYY-MM-DD)")
	auditHistoryCmd.Flags().StringVarP(&historyFormat, "format", "f", "text", "Output format (text|json)")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log operations",
	Long:  "Commands for verifying and inspecting the hash-chained audit log.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Verify hash chain integrity of an audit log",
	Long:  "Walks the JSONL audit log and validates that every entry's prev_hash\nmatches the SHA-256 of the previous entry. Exits 0 if valid, 1 if tampered.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditVerify,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail <path>",
	Short: "Show recent audit log entries",
	Long:  "Reads the last N entries from the JSONL audit log and pretty-prints them.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditTail,
}

var auditHistoryCmd = &cobra.Command{
	Use:   "history <path>",
	Short: "Show decision history with summary",
	Long: "Reads the audit log, filters by claim ID and date range, and prints a\n" +
		"timeline of decisions plus counts per recommendation and max exposure.",
	Args: cobra.ExactArgs(1),
	RunE: runAuditHistory,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result := audit.Verify(args[0])
	if result.Valid {
		fmt.Printf("OK: %d entries verified\n", result.Lines)
		return nil
	}
	fmt.Fprintf(os.Stderr, "FAILED at line %d: %s\n", result.ErrorLine, result.Error)
	os.Exit(1)
	return nil
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	// Read all lines, keep last N
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}

	start := len(lines) - tailLines
	if start < 0 {
		start = 0
	}

	for _, line := range lines[start:] {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			fmt.Println(line)
			continue
		}
		out, _ := json.MarshalIndent(entry, "", "  ")
		fmt.Println(string(out))
	}

	return nil
}

func runAuditHistory(cmd *cobra.Command, args []string) error {
	filter := audit.HistoryFilter{ClaimID: historyClaim}

	if historyFrom != "" {
		t, err := time.Parse("2006-01-02", historyFrom)
		if err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
		filter.From = t
	}
	if historyTo != "" {
		t, err := time.Parse("2006-01-02", historyTo)
		if err != nil {
			return fmt.Errorf("invalid --to date: %w", err)
		}
		// Include the whole end day
		filter.To = t.Add(24*time.Hour - time.Nanosecond)
	}

	result, err := audit.History(args[0], filter)
	if err != nil {
		return err
	}

	switch historyFormat {
	case "json":
		out, err := audit.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(audit.FormatTimeline(result))
	}
	return nil
}
