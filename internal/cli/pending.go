package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimgate/internal/review"
)

var pendingReviews string

func init() {
	rootCmd.AddCommand(pendingCmd)
	pendingCmd.Flags().StringVar(&pendingReviews, "reviews", "", "Review queue directory (default ~/.claimgate/reviews)")
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List claims waiting for human review",
	Long:  "Shows all queued reviews with their status, recommendation, assignee, and exposure.",
	RunE:  runPending,
}

func runPending(cmd *cobra.Command, args []string) error {
	store, err := openReviewStore(pendingReviews)
	if err != nil {
		return err
	}

	list, err := store.List()
	if err != nil {
		return fmt.Errorf("list reviews: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No pending reviews.")
		return nil
	}

	fmt.Printf("%-20s %-10s %-22s %-20s %-12s %s\n",
		"CLAIM", "STATUS", "RECOMMENDATION", "ASSIGN TO", "MAX COST", "CREATED")
	for _, r := range list {
		fmt.Printf("%-20s %-10s %-22s %-20s %-12s %s\n",
			truncate(r.ClaimID, 20),
			r.Status,
			truncate(r.Recommendation, 22),
			truncate(r.AssignTo, 20),
			fmt.Sprintf("$%.2f", float64(r.TotalMax)/100),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return nil
}

func openReviewStore(dir string) (*review.Store, error) {
	if dir == "" {
		dir = review.DefaultDir()
	}
	store, err := review.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open review store: %w", err)
	}
	return store, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
