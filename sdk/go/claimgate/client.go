package claimgate

import (
	"fmt"

	"github.com/ppiankov/claimgate/internal/ingest"
	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/policy"
)

// Client holds a loaded policy configuration for in-process evaluation.
// Safe for concurrent use; the config is read-only after New.
type Client struct {
	policyCfg  *policy.Config
	policyHash string
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	var cfg clientConfig
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.policyCfg != nil {
		return &Client{policyCfg: cfg.policyCfg}, nil
	}

	policyCfg, policyHash, err := policy.LoadConfigWithHash(cfg.policyPath)
	if err != nil {
		return nil, fmt.Errorf("claimgate: load policy config: %w", err)
	}
	return &Client{policyCfg: policyCfg, policyHash: policyHash}, nil
}

// PolicyHash returns the SHA-256 of the loaded policy file, or empty when
// the config was supplied directly.
func (c *Client) PolicyHash() string {
	return c.policyHash
}

// Assess evaluates damaged parts against the loaded policy.
func (c *Client) Assess(parts []model.DamagedPart, pctx *model.PolicyContext) (model.Evaluation, error) {
	return policy.Evaluate(parts, pctx, c.policyCfg)
}

// AssessPayload parses, validates, and evaluates a raw detection payload.
func (c *Client) AssessPayload(data []byte) (model.Evaluation, error) {
	p, err := ingest.Parse(data)
	if err != nil {
		return model.Evaluation{}, err
	}
	if err := ingest.Validate(p); err != nil {
		return model.Evaluation{}, err
	}
	return policy.Evaluate(p.Parts(), p.Context(), c.policyCfg)
}

// Override replaces one damaged part and recomputes the evaluation.
// Reports whether the correction is significant for model retraining.
func (c *Client) Override(before model.Assessment, index int, part model.DamagedPart, pctx *model.PolicyContext) (model.Evaluation, bool, error) {
	ev, err := policy.ReplacePart(before, index, part, pctx, c.policyCfg)
	if err != nil {
		return model.Evaluation{}, false, err
	}
	return ev, policy.SignificantOverride(before, ev.Assessment, c.policyCfg), nil
}

// Validate reports structural problems in an assessment, for callers that
// persist or transmit assessments produced elsewhere.
func (c *Client) Validate(a model.Assessment) []string {
	return policy.ValidateAssessment(a)
}
