// Package mcp exposes the claim policy engine as MCP tools so assistant
// workflows can assess claims and manage the review queue over stdio.
package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/claimgate/internal/alert"
	"github.com/ppiankov/claimgate/internal/audit"
	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/policy"
	"github.com/ppiankov/claimgate/internal/review"
)

// Config holds MCP server configuration.
type Config struct {
	PolicyPath   string
	AuditLogPath string
	ReviewDir    string
}

// Server wraps the MCP SDK server around the policy engine.
type Server struct {
	mcpServer  *mcpsdk.Server
	policyCfg  *policy.Config
	policyHash string
	reviews    *review.Store
	dispatcher *alert.Dispatcher
	auditLog   *audit.Log
	mu         sync.Mutex
}

// New creates an MCP server with loaded policy and review store.
func New(cfg Config) (*Server, error) {
	policyCfg, policyHash, err := policy.LoadConfigWithHash(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy config: %w", err)
	}

	reviewDir := cfg.ReviewDir
	if reviewDir == "" {
		reviewDir = review.DefaultDir()
	}
	reviews, err := review.NewStore(reviewDir)
	if err != nil {
		return nil, fmt.Errorf("create review store: %w", err)
	}
	reviews.Cleanup()

	var auditLog *audit.Log
	if cfg.AuditLogPath != "" {
		auditLog, err = audit.Open(cfg.AuditLogPath)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
	}

	s := &Server{
		policyCfg:  policyCfg,
		policyHash: policyHash,
		reviews:    reviews,
		dispatcher: alert.NewDispatcher(policyCfg.Alerts),
		auditLog:   auditLog,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "claimgate",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close closes the audit log if configured.
func (s *Server) Close() error {
	if s.auditLog != nil {
		return s.auditLog.Close()
	}
	return nil
}

func (s *Server) recordAudit(claimID, event string, ev model.Evaluation) {
	if s.auditLog == nil {
		return
	}
	flags := make([]string, len(ev.Assessment.Flags))
	for i, f := range ev.Assessment.Flags {
		flags[i] = string(f)
	}
	s.auditLog.Record(audit.AuditEntry{
		ClaimID:        claimID,
		Event:          event,
		Recommendation: string(ev.Assessment.Recommendation.Code),
		AssignTo:       string(ev.Routing.AssignTo),
		Flags:          flags,
		TotalMin:       ev.Assessment.TotalMin,
		TotalMax:       ev.Assessment.TotalMax,
		Confidence:     ev.Assessment.OverallConfidence,
		FraudRisk:      ev.Assessment.FraudRiskScore,
		PolicyHash:     s.policyHash,
	})
}

func (s *Server) dispatchAlert(claimID string, ev model.Evaluation, eventType string) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Dispatch(alert.AlertEvent{
		Timestamp:      time.Now().UTC().Format(audit.TimestampFormat),
		ClaimID:        claimID,
		Recommendation: string(ev.Assessment.Recommendation.Code),
		Reason:         ev.Assessment.Recommendation.Text,
		AssignTo:       string(ev.Routing.AssignTo),
		Priority:       ev.Routing.Priority,
		TotalMax:       ev.Assessment.TotalMax,
		FraudRisk:      ev.Assessment.FraudRiskScore,
		PolicyHash:     s.policyHash,
		Type:           eventType,
	})
}

// registerTools adds all claimgate tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "claimgate_assess",
		Description: "Evaluate a full detection payload through the claim policy engine. Returns cost totals, routing recommendation, risk flags, fraud score, and compliance notes.",
	}, s.handleAssess)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "claimgate_check",
		Description: "Dry-run the policy engine on a simplified damaged-parts list without persisting anything. Useful for what-if questions about thresholds.",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "claimgate_pending",
		Description: "List claims waiting for human review.",
	}, s.handlePending)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "claimgate_approve",
		Description: "Approve a pending claim review by claim ID.",
	}, s.handleApprove)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "claimgate_deny",
		Description: "Deny a pending claim review by claim ID.",
	}, s.handleDeny)
}
