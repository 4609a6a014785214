package claimgate

import "github.com/ppiankov/claimgate/internal/policy"

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	policyPath string
	policyCfg  *policy.Config
}

// WithPolicy sets the path to a policy YAML file. Defaults and the standard
// search path apply when empty.
func WithPolicy(path string) Option {
	return func(c *clientConfig) { c.policyPath = path }
}

// WithConfig supplies an already-loaded policy configuration, bypassing the
// file load. Useful for tests and embedded tuning.
func WithConfig(cfg *policy.Config) Option {
	return func(c *clientConfig) { c.policyCfg = cfg }
}
