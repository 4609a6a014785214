package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	approveDuration time.Duration
	approveReviews  string
)

func init() {
	rootCmd.AddCommand(approveCmd)
	approveCmd.Flags().DurationVar(&approveDuration, "duration", 0, "Validity period (e.g., 24h). Default: one-time use")
	approveCmd.Flags().StringVar(&approveReviews, "reviews", "", "Review queue directory (default ~/.claimgate/reviews)")
}

var approveCmd = &cobra.Command{
	Use:   "approve <claim-id>",
	Short: "Approve a queued claim review",
	Long:  "Approves a pending review. Without --duration, approval is one-time (consumed on first use).\nWith --duration, approval stays valid for the specified period.",
	Args:  cobra.ExactArgs(1),
	RunE:  runApprove,
}

func runApprove(cmd *cobra.Command, args []string) error {
	claimID := args[0]

	store, err := openReviewStore(approveReviews)
	if err != nil {
		return err
	}

	if err := store.Approve(claimID, approveDuration); err != nil {
		return err
	}

	if approveDuration > 0 {
		fmt.Printf("Approved %q for %s\n", claimID, approveDuration)
	} else {
		fmt.Printf("Approved %q (one-time use)\n", claimID)
	}
	return nil
}
