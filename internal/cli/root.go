package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "claimgate",
	Short: "Policy decision gate for AI-assessed damage claims",
	Long:  "Turns raw damage detections into cost estimates, risk flags, fraud scores,\nand routing recommendations. Deterministic policy, auditable decisions.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
