package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimgate/internal/audit"
	"github.com/ppiankov/claimgate/internal/ingest"
	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/policy"
)

var (
	assessPolicy   string
	assessAuditLog string
	assessFormat   string
)

func init() {
	rootCmd.AddCommand(assessCmd)
	assessCmd.Flags().StringVar(&assessPolicy, "policy", "", "Path to policy YAML (optional)")
	assessCmd.Flags().StringVar(&assessAuditLog, "audit-log", "", "Path to audit log JSONL file")
	assessCmd.Flags().StringVarP(&assessFormat, "format", "f", "text", "Output format (text|json)")
}

var assessCmd = &cobra.Command{
	Use:   "assess [payload.json]",
	Short: "Evaluate a detection payload through the policy engine",
	Long: "Reads a detection payload (JSON) from a file or stdin, runs the full\n" +
		"evaluation pipeline, and prints the recommendation, cost totals, risk\n" +
		"flags, fraud score, and routing instructions.",
	Args: cobra.MaximumNArgs(1),
	RunE: runAssess,
}

func runAssess(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	payload, err := ingest.Parse(data)
	if err != nil {
		return err
	}
	if err := ingest.Validate(payload); err != nil {
		return err
	}

	cfg, hash, err := policy.LoadConfigWithHash(assessPolicy)
	if err != nil {
		return fmt.Errorf("load policy config: %w", err)
	}

	ev, err := policy.Evaluate(payload.Parts(), payload.Context(), cfg)
	if err != nil {
		return err
	}

	if assessAuditLog != "" {
		log, err := audit.Open(assessAuditLog)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		defer log.Close()

		flags := make([]string, len(ev.Assessment.Flags))
		for i, f := range ev.Assessment.Flags {
			flags[i] = string(f)
		}
		if err := log.Record(audit.AuditEntry{
			ClaimID:        payload.ClaimID,
			Event:          "evaluation",
			Recommendation: string(ev.Assessment.Recommendation.Code),
			AssignTo:       string(ev.Routing.AssignTo),
			Flags:          flags,
			TotalMin:       ev.Assessment.TotalMin,
			TotalMax:       ev.Assessment.TotalMax,
			Confidence:     ev.Assessment.OverallConfidence,
			FraudRisk:      ev.Assessment.FraudRiskScore,
			PolicyHash:     hash,
		}); err != nil {
			return fmt.Errorf("record audit entry: %w", err)
		}
	}

	switch assessFormat {
	case "json":
		out, err := json.MarshalIndent(ev, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		printEvaluation(payload.ClaimID, ev)
	}
	return nil
}

func printEvaluation(claimID string, ev model.Evaluation) {
	a := ev.Assessment

	fmt.Printf("Claim: %s\n", claimID)
	fmt.Printf("Recommendation: %s (%s)\n", a.Recommendation.Code, a.Recommendation.Text)
	fmt.Printf("Assign to: %s (priority %d, est. %d min)\n",
		ev.Routing.AssignTo, ev.Routing.Priority, ev.Routing.EstimatedTimeMinutes)
	fmt.Printf("Estimated cost: %s - %s\n",
		policy.FormatCents(a.TotalMin), policy.FormatCents(a.TotalMax))
	fmt.Printf("Confidence: %.2f   Fraud risk: %.2f\n", a.OverallConfidence, a.FraudRiskScore)

	if len(a.Flags) > 0 {
		strs := make([]string, len(a.Flags))
		for i, f := range a.Flags {
			strs[i] = string(f)
		}
		fmt.Printf("Flags: %s\n", strings.Join(strs, ", "))
	}

	if len(a.CostBreakdown) > 0 {
		fmt.Println("\nCost breakdown:")
		for _, cb := range a.CostBreakdown {
			fmt.Printf("  %s\n", cb.Label)
			for _, d := range cb.Details {
				fmt.Printf("    %s\n", d)
			}
		}
	}

	if len(ev.Routing.RequiredActions) > 0 {
		fmt.Println("\nRequired actions:")
		for _, act := range ev.Routing.RequiredActions {
			fmt.Printf("  - %s\n", act)
		}
	}

	if len(ev.ComplianceNotes) > 0 {
		fmt.Println("\nCompliance notes:")
		for _, n := range ev.ComplianceNotes {
			fmt.Printf("  - %s\n", n)
		}
	}

	if len(a.ImageQuality) > 0 {
		fmt.Println("\nImage quality:")
		for _, n := range a.ImageQuality {
			fmt.Printf("  - %s\n", n)
		}
	}
}
