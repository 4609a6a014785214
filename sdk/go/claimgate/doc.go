// Package claimgate provides in-process claim evaluation for Go services.
// It loads a policy configuration once and evaluates detection payloads or
// damaged-parts lists without a subprocess or network hop.
//
// Usage:
//
//	cg, err := claimgate.New(claimgate.WithPolicy("policy.yaml"))
//	ev, err := cg.Assess(parts, &model.PolicyContext{ClaimID: "CLM-1042", PhotoCount: 5})
//	if ev.Assessment.Recommendation.Code == model.CodeFastTrackReview {
//	    // settle automatically
//	}
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/ppiankov/claimgate/sdk/go/claimgate.
package claimgate
