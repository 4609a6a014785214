package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var denyReviews string

func init() {
	rootCmd.AddCommand(denyCmd)
	denyCmd.Flags().StringVar(&denyReviews, "reviews", "", "Review queue directory (default ~/.claimgate/reviews)")
}

var denyCmd = &cobra.Command{
	Use:   "deny <claim-id>",
	Short: "Deny a queued claim review",
	Long:  "Denies a pending review. The claim stays blocked from automatic settlement.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeny,
}

func runDeny(cmd *cobra.Command, args []string) error {
	claimID := args[0]

	store, err := openReviewStore(denyReviews)
	if err != nil {
		return err
	}

	if err := store.Deny(claimID); err != nil {
		return err
	}

	fmt.Printf("Denied %q\n", claimID)
	return nil
}
