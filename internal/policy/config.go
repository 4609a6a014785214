package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/claimgate/internal/alert"
)

// Band is a [Min, Max] clamp or bracket for a multiplier.
type Band struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Clamp bounds v to the band.
func (b Band) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// FastTrack gates the expedited approval path.
type FastTrack struct {
	MinConfidence float64 `yaml:"min_confidence"`
	MaxCost       int64   `yaml:"max_cost"`
}

// Escalation gates routing to a senior adjuster.
type Escalation struct {
	MinConfidence         float64 `yaml:"min_confidence"`
	HighExposureThreshold int64   `yaml:"high_exposure_threshold"`
}

// Override defines when a human override counts as significant, meaning
// large enough to flag as training data and alert on.
type Override struct {
	SignificantDeltaAbs int64   `yaml:"significant_delta_abs"`
	SignificantDeltaPct float64 `yaml:"significant_delta_pct"`
}

// Fraud holds the additive fraud-score heuristic parameters.
type Fraud struct {
	MismatchCost        int64   `yaml:"mismatch_cost"`
	MismatchWeight      float64 `yaml:"mismatch_weight"`
	FragmentationParts  int     `yaml:"fragmentation_parts"`
	FragmentationWeight float64 `yaml:"fragmentation_weight"`
	DeviationSigma      float64 `yaml:"deviation_sigma"`
	DeviationWeight     float64 `yaml:"deviation_weight"`
}

// Compliance holds the thresholds driving advisory compliance notes.
type Compliance struct {
	ManualVerifyConfidence float64 `yaml:"manual_verify_confidence"`
	EnhancedApprovalCost   int64   `yaml:"enhanced_approval_cost"`
	SIUFraudScore          float64 `yaml:"siu_fraud_score"`
}

// Config holds all tunable policy parameters. It is injected into every
// engine call (nil falls back to defaults) so deployments can retune
// fast-track and escalation behavior without code changes, and tests can
// vary thresholds without cross-test interference.
type Config struct {
	BaseCosts                   map[string]int64   `yaml:"base_costs"`
	DefaultBaseCost             int64              `yaml:"default_base_cost"`
	SeverityMultipliers         map[string]float64 `yaml:"severity_multipliers"`
	DamageTypeMultipliers       map[string]float64 `yaml:"damage_type_multipliers"`
	DefaultDamageTypeMultiplier float64            `yaml:"default_damage_type_multiplier"`
	AreaNormalizationPct        float64            `yaml:"area_normalization_pct"`
	AreaFactorBand              Band               `yaml:"area_factor_band"`
	DamageMultiplierBand        Band               `yaml:"damage_multiplier_band"`
	RangeMultipliers            Band               `yaml:"range_multipliers"`
	MinPartCost                 int64              `yaml:"min_part_cost"`
	LaborFraction               float64            `yaml:"labor_fraction"`

	FastTrack  FastTrack  `yaml:"fast_track"`
	Escalation Escalation `yaml:"escalation"`

	MinPhotos             int     `yaml:"min_photos"`
	SeveritySpreadLimit   float64 `yaml:"severity_spread_limit"`
	HistoricalSpreadLimit float64 `yaml:"historical_spread_limit"`
	LowConfidencePhoto    float64 `yaml:"low_confidence_photo"`

	Fraud      Fraud      `yaml:"fraud"`
	Compliance Compliance `yaml:"compliance"`
	Override   Override   `yaml:"override"`

	Alerts []alert.AlertConfig `yaml:"alerts"`
}

// DefaultConfig returns the built-in policy configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseCosts: map[string]int64{
			"front_bumper":  45000,
			"rear_bumper":   50000,
			"hood":          60000,
			"trunk":         55000,
			"door":          55000,
			"fender":        40000,
			"quarter_panel": 65000,
			"roof":          70000,
			"windshield":    35000,
			"headlight":     30000,
			"taillight":     25000,
			"grille":        30000,
			"mirror":        20000,
			"wheel":         40000,
			"frame":         150000,
		},
		DefaultBaseCost: 40000,
		SeverityMultipliers: map[string]float64{
			"minor":      0.6,
			"moderate":   1.0,
			"severe":     1.6,
			"replace":    2.2,
			"structural": 3.0,
		},
		DamageTypeMultipliers: map[string]float64{
			"paint_damage": 0.5,
			"scratch":      0.6,
			"rust":         0.8,
			"dent":         1.0,
			"crack":        1.2,
			"bend":         1.3,
			"tear":         1.4,
			"broken":       1.5,
		},
		DefaultDamageTypeMultiplier: 1.0,
		AreaNormalizationPct:        25,
		AreaFactorBand:              Band{Min: 0.5, Max: 2.0},
		DamageMultiplierBand:        Band{Min: 0.5, Max: 3.0},
		RangeMultipliers:            Band{Min: 0.8, Max: 1.2},
		MinPartCost:                 5000,
		LaborFraction:               0.3,
		FastTrack: FastTrack{
			MinConfidence: 0.8,
			MaxCost:       300000,
		},
		Escalation: Escalation{
			MinConfidence:         0.6,
			HighExposureThreshold: 500000,
		},
		MinPhotos:             3,
		SeveritySpreadLimit:   0.5,
		HistoricalSpreadLimit: 0.3,
		LowConfidencePhoto:    0.6,
		Fraud: Fraud{
			MismatchCost:        100000,
			MismatchWeight:      0.3,
			FragmentationParts:  5,
			FragmentationWeight: 0.2,
			DeviationSigma:      2,
			DeviationWeight:     0.4,
		},
		Compliance: Compliance{
			ManualVerifyConfidence: 0.5,
			EnhancedApprovalCost:   1000000,
			SIUFraudScore:          0.5,
		},
		Override: Override{
			SignificantDeltaAbs: 50000,
			SignificantDeltaPct: 0.25,
		},
	}
}

// LoadConfig loads policy configuration from a YAML file.
// Empty path falls back to ~/.claimgate/policy.yaml.
// Missing file returns defaults. Invalid YAML returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg, _, err := LoadConfigWithHash(path)
	return cfg, err
}

// LoadConfigWithHash loads policy configuration and returns its SHA-256 hash.
// The hash is computed over the raw YAML bytes on disk and is recorded with
// every audit entry so a decision can be tied to the exact config that made
// it. When no file exists (defaults used), the hash is the SHA-256 of empty
// input.
func LoadConfigWithHash(path string) (*Config, string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig(), emptyHash(), nil
		}
		path = filepath.Join(home, ".claimgate", "policy.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), emptyHash(), nil
		}
		return nil, "", fmt.Errorf("failed to read policy config: %w", err)
	}

	h := sha256.Sum256(data)
	hash := "sha256:" + hex.EncodeToString(h[:])

	// Start with defaults, YAML overwrites only specified fields
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse policy config: %w", err)
	}

	return cfg, hash, nil
}

func emptyHash() string {
	h := sha256.Sum256(nil)
	return "sha256:" + hex.EncodeToString(h[:])
}

// DefaultConfigYAML returns a commented YAML string for init-policy.
func DefaultConfigYAML() string {
	return `# claimgate policy configuration
# Generated by: claimgate init-policy
#
# Evaluation order (cannot be changed):
#   1. Per-part cost estimation (caller-supplied consistent ranges pass through)
#   2. Totals with labor surcharge
#   3. Confidence aggregation and risk flags
#   4. Recommendation (structural damage always dominates)
#   5. Fraud risk score, image quality notes, compliance notes, routing

# Per-part base repair costs in integer cents. Parts not listed here use
# default_base_cost.
base_costs:
  front_bumper: 45000
  rear_bumper: 50000
  hood: 60000
  trunk: 55000
  door: 55000
  fender: 40000
  quarter_panel: 65000
  roof: 70000
  windshield: 35000
  headlight: 30000
  taillight: 25000
  grille: 30000
  mirror: 20000
  wheel: 40000
  frame: 150000
default_base_cost: 40000

# Severity multipliers applied to the base cost. Unknown severities use 1.0.
severity_multipliers:
  minor: 0.6
  moderate: 1.0
  severe: 1.6
  replace: 2.2
  structural: 3.0

# Damage-type multipliers. Unknown types use default_damage_type_multiplier.
damage_type_multipliers:
  paint_damage: 0.5
  scratch: 0.6
  rust: 0.8
  dent: 1.0
  crack: 1.2
  bend: 1.3
  tear: 1.4
  broken: 1.5
default_damage_type_multiplier: 1.0

# Area factor: area_percentage / area_normalization_pct, clamped to the band.
area_normalization_pct: 25
area_factor_band: {min: 0.5, max: 2.0}
damage_multiplier_band: {min: 0.5, max: 3.0}

# Estimated range brackets the midpoint: min 0.8x, max 1.2x.
range_multipliers: {min: 0.8, max: 1.2}
min_part_cost: 5000
labor_fraction: 0.3

# Fast-track: high confidence, low cost, no disqualifying flags.
fast_track:
  min_confidence: 0.8
  max_cost: 300000

# Escalation to senior adjuster: low confidence or high exposure.
escalation:
  min_confidence: 0.6
  high_exposure_threshold: 500000

min_photos: 3
severity_spread_limit: 0.5
historical_spread_limit: 0.3
low_confidence_photo: 0.6

fraud:
  mismatch_cost: 100000
  mismatch_weight: 0.3
  fragmentation_parts: 5
  fragmentation_weight: 0.2
  deviation_sigma: 2
  deviation_weight: 0.4

compliance:
  manual_verify_confidence: 0.5
  enhanced_approval_cost: 1000000
  siu_fraud_score: 0.5

# Override significance: deltas past either bound mark the override as
# high-value training data.
override:
  significant_delta_abs: 50000
  significant_delta_pct: 0.25

# Webhook alerts on escalations and fraud-score breaches.
# alerts:
#   - url: https://hooks.slack.com/services/...
#     format: slack
#     events: [ESCALATE_STRUCTURAL, ESCALATE_SENIOR, fraud_review]
`
}
