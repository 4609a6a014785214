package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	claimmcp "github.com/ppiankov/claimgate/internal/mcp"
)

var (
	mcpPolicy   string
	mcpAuditLog string
	mcpReviews  string
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpPolicy, "policy", "", "Path to policy YAML")
	mcpCmd.Flags().StringVar(&mcpAuditLog, "audit-log", "", "Path to audit log JSONL file")
	mcpCmd.Flags().StringVar(&mcpReviews, "reviews", "", "Review queue directory (default ~/.claimgate/reviews)")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for assistant integration",
	Long: "Runs claimgate as an MCP (Model Context Protocol) server over stdio.\n" +
		"Exposes tools: assess, check, pending, approve, deny.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := claimmcp.Config{
		PolicyPath:   mcpPolicy,
		AuditLogPath: mcpAuditLog,
		ReviewDir:    mcpReviews,
	}

	srv, err := claimmcp.New(cfg)
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	fmt.Fprintln(os.Stderr, "claimgate MCP server running on stdio")
	return srv.Run(ctx)
}
