package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/claimgate/internal/ingest"
	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/policy"
)

// --- Input/Output types ---

// AssessInput defines parameters for the claimgate_assess tool.
type AssessInput struct {
	Payload ingest.DetectionPayload `json:"payload" jsonschema:"detection payload from the damage assessment model"`
}

// AssessOutput is the full evaluation for a claim.
type AssessOutput struct {
	ClaimID         string   `json:"claim_id"`
	Recommendation  string   `json:"recommendation"`
	Reason          string   `json:"reason"`
	AssignTo        string   `json:"assign_to"`
	Priority        int      `json:"priority"`
	TotalMin        int64    `json:"total_min"`
	TotalMax        int64    `json:"total_max"`
	Confidence      float64  `json:"confidence"`
	FraudRisk       float64  `json:"fraud_risk"`
	Flags           []string `json:"flags,omitempty"`
	ComplianceNotes []string `json:"compliance_notes,omitempty"`
	PolicyHash      string   `json:"policy_hash"`
}

// CheckPart is one damaged part in a claimgate_check dry-run.
type CheckPart struct {
	PartID           string  `json:"part_id" jsonschema:"canonical part identifier, e.g. rear_bumper"`
	Severity         string  `json:"severity" jsonschema:"minor/moderate/severe/replace/structural"`
	Confidence       float64 `json:"confidence" jsonschema:"detection confidence 0..1"`
	EstimatedCostMin *int64  `json:"estimated_cost_min,omitempty" jsonschema:"caller cost range lower bound in cents"`
	EstimatedCostMax *int64  `json:"estimated_cost_max,omitempty" jsonschema:"caller cost range upper bound in cents"`
}

// CheckInput defines parameters for the claimgate_check tool.
type CheckInput struct {
	Parts      []CheckPart `json:"parts" jsonschema:"damaged parts to evaluate"`
	PhotoCount int         `json:"photo_count,omitempty" jsonschema:"number of photos submitted"`
}

// CheckOutput contains the dry-run decision.
type CheckOutput struct {
	Recommendation string   `json:"recommendation"`
	Reason         string   `json:"reason"`
	AssignTo       string   `json:"assign_to"`
	TotalMin       int64    `json:"total_min"`
	TotalMax       int64    `json:"total_max"`
	Confidence     float64  `json:"confidence"`
	FraudRisk      float64  `json:"fraud_risk"`
	Flags          []string `json:"flags,omitempty"`
}

// PendingInput is empty; no parameters needed.
type PendingInput struct{}

// PendingOutput lists claims waiting for human review.
type PendingOutput struct {
	Reviews []PendingItem `json:"reviews"`
}

// PendingItem describes a single queued claim.
type PendingItem struct {
	ClaimID        string `json:"claim_id"`
	Status         string `json:"status"`
	Recommendation string `json:"recommendation"`
	Reason         string `json:"reason"`
	AssignTo       string `json:"assign_to"`
	Priority       int    `json:"priority"`
	TotalMax       int64  `json:"total_max"`
	CreatedAt      string `json:"created_at"`
}

// ResolveInput identifies a queued claim for approve/deny.
type ResolveInput struct {
	ClaimID  string `json:"claim_id" jsonschema:"claim to resolve"`
	Duration string `json:"duration,omitempty" jsonschema:"approval validity (e.g. 24h), omit for one-time"`
}

// ResolveOutput confirms the resolution.
type ResolveOutput struct {
	ClaimID string `json:"claim_id"`
	Status  string `json:"status"`
}

// --- Handlers ---

func (s *Server) handleAssess(ctx context.Context, req *mcpsdk.CallToolRequest, input AssessInput) (*mcpsdk.CallToolResult, AssessOutput, error) {
	p := input.Payload
	if err := ingest.Validate(&p); err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, AssessOutput{}, err
	}

	ev, err := policy.Evaluate(p.Parts(), p.Context(), s.policyCfg)
	if err != nil {
		return nil, AssessOutput{}, err
	}

	s.mu.Lock()
	s.recordAudit(p.ClaimID, "evaluation", ev)
	s.mu.Unlock()

	if ev.Assessment.Recommendation.Code != model.CodeFastTrackReview {
		s.reviews.Enqueue(
			p.ClaimID,
			string(ev.Assessment.Recommendation.Code),
			ev.Assessment.Recommendation.Text,
			string(ev.Routing.AssignTo),
			ev.Routing.Priority,
			ev.Assessment.TotalMax,
		)
	}
	s.dispatchAlert(p.ClaimID, ev, "")

	return nil, AssessOutput{
		ClaimID:         p.ClaimID,
		Recommendation:  string(ev.Assessment.Recommendation.Code),
		Reason:          ev.Assessment.Recommendation.Text,
		AssignTo:        string(ev.Routing.AssignTo),
		Priority:        ev.Routing.Priority,
		TotalMin:        ev.Assessment.TotalMin,
		TotalMax:        ev.Assessment.TotalMax,
		Confidence:      ev.Assessment.OverallConfidence,
		FraudRisk:       ev.Assessment.FraudRiskScore,
		Flags:           flagStrings(ev.Assessment.Flags),
		ComplianceNotes: ev.ComplianceNotes,
		PolicyHash:      s.policyHash,
	}, nil
}

func (s *Server) handleCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	parts := make([]model.DamagedPart, 0, len(input.Parts))
	for _, p := range input.Parts {
		parts = append(parts, model.DamagedPart{
			PartID:           model.NormalizePartID(p.PartID),
			Severity:         string(model.NormalizeSeverity(p.Severity)),
			Confidence:       p.Confidence,
			EstimatedCostMin: p.EstimatedCostMin,
			EstimatedCostMax: p.EstimatedCostMax,
		})
	}

	pctx := &model.PolicyContext{PhotoCount: input.PhotoCount}
	ev, err := policy.Evaluate(parts, pctx, s.policyCfg)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	return nil, CheckOutput{
		Recommendation: string(ev.Assessment.Recommendation.Code),
		Reason:         ev.Assessment.Recommendation.Text,
		AssignTo:       string(ev.Routing.AssignTo),
		TotalMin:       ev.Assessment.TotalMin,
		TotalMax:       ev.Assessment.TotalMax,
		Confidence:     ev.Assessment.OverallConfidence,
		FraudRisk:      ev.Assessment.FraudRiskScore,
		Flags:          flagStrings(ev.Assessment.Flags),
	}, nil
}

func (s *Server) handlePending(ctx context.Context, req *mcpsdk.CallToolRequest, input PendingInput) (*mcpsdk.CallToolResult, PendingOutput, error) {
	reviews, err := s.reviews.List()
	if err != nil {
		return nil, PendingOutput{}, fmt.Errorf("list reviews: %w", err)
	}

	out := PendingOutput{Reviews: []PendingItem{}}
	for _, r := range reviews {
		out.Reviews = append(out.Reviews, PendingItem{
			ClaimID:        r.ClaimID,
			Status:         string(r.Status),
			Recommendation: r.Recommendation,
			Reason:         r.Reason,
			AssignTo:       r.AssignTo,
			Priority:       r.Priority,
			TotalMax:       r.TotalMax,
			CreatedAt:      r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return nil, out, nil
}

func (s *Server) handleApprove(ctx context.Context, req *mcpsdk.CallToolRequest, input ResolveInput) (*mcpsdk.CallToolResult, ResolveOutput, error) {
	var d time.Duration
	if input.Duration != "" {
		var err error
		d, err = time.ParseDuration(input.Duration)
		if err != nil {
			return &mcpsdk.CallToolResult{IsError: true}, ResolveOutput{}, fmt.Errorf("invalid duration %q: %w", input.Duration, err)
		}
	}
	if err := s.reviews.Approve(input.ClaimID, d); err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, ResolveOutput{}, err
	}
	return nil, ResolveOutput{ClaimID: input.ClaimID, Status: "approved"}, nil
}

func (s *Server) handleDeny(ctx context.Context, req *mcpsdk.CallToolRequest, input ResolveInput) (*mcpsdk.CallToolResult, ResolveOutput, error) {
	if err := s.reviews.Deny(input.ClaimID); err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, ResolveOutput{}, err
	}
	return nil, ResolveOutput{ClaimID: input.ClaimID, Status: "denied"}, nil
}

func flagStrings(flags []model.RiskFlag) []string {
	if len(flags) == 0 {
		return nil
	}
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = string(f)
	}
	return out
}
