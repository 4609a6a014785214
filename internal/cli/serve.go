package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/claimgate/internal/server"
)

var (
	servePort     int
	servePolicy   string
	serveAuditLog string
	serveDB       string
	serveReviews  string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 8700, "HTTP listen port")
	serveCmd.Flags().StringVar(&servePolicy, "policy", "", "Path to policy YAML")
	serveCmd.Flags().StringVar(&serveAuditLog, "audit-log", "", "Path to audit log JSONL file")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "Path to SQLite database for evaluations and overrides")
	serveCmd.Flags().StringVar(&serveReviews, "reviews", "", "Review queue directory (default ~/.claimgate/reviews)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP policy server",
	Long: "Runs claimgate as an HTTP JSON API for the claims platform.\n" +
		"POST /v1/assess evaluates detection payloads; overrides and lookups\n" +
		"go through /v1/assessments. Supports hot-reload of the policy file.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	cfg := server.Config{
		Port:         servePort,
		PolicyPath:   servePolicy,
		AuditLogPath: serveAuditLog,
		DatabasePath: serveDB,
		ReviewDir:    serveReviews,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hot-reload watcher for the policy file
	if servePolicy != "" {
		reloader, err := server.NewReloader(srv, []string{servePolicy})
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
		} else {
			go reloader.Run(ctx)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	return srv.Start(ctx)
}
