package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimgate/internal/store"
)

var exportDB string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDB, "db", "", "Path to SQLite database (required)")
	exportCmd.MarkFlagRequired("db")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export significant overrides as model training data",
	Long: "Dumps all overrides where the human correction moved the cost totals\n" +
		"past the significance thresholds, as a JSON array on stdout. Feed this\n" +
		"back to the assessment model team for retraining.",
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := store.Open(exportDB)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.ExportTrainingData()
	if err != nil {
		return fmt.Errorf("export training data: %w", err)
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
