// Package ingest defines the DetectionPayload, the handoff artifact between
// the vision/detection provider and the policy engine. The payload carries
// typed per-photo detections plus basic photo metadata; provider selection,
// polling, and retry live entirely on the provider side.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/claimgate/internal/model"
)

// PayloadVersion is the current DetectionPayload schema version.
const PayloadVersion = "1"

// DetectionPayload is the handoff from the detection provider to claimgate.
type DetectionPayload struct {
	Version      string      `json:"version"`
	ClaimID      string      `json:"claim_id"`
	BatchID      string      `json:"batch_id,omitempty"`
	ModelVersion string      `json:"model_version,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	Photos       []Photo     `json:"photos"`
	Detections   []Detection `json:"detections"`
}

// Photo is basic quality metadata about one uploaded photo.
type Photo struct {
	ID     string `json:"id"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Detection is one raw per-photo damage detection.
type Detection struct {
	PhotoID          string             `json:"photo_id,omitempty"`
	PartID           string             `json:"part_id"`
	PartLabel        string             `json:"part_label,omitempty"`
	Severity         string             `json:"severity"`
	Confidence       float64            `json:"confidence"`
	EstimatedCostMin *int64             `json:"estimated_cost_min,omitempty"`
	EstimatedCostMax *int64             `json:"estimated_cost_max,omitempty"`
	DamageTypes      []model.DamageType `json:"damage_types,omitempty"`
}

// Parse decodes a DetectionPayload from raw JSON.
func Parse(data []byte) (*DetectionPayload, error) {
	var p DetectionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse detection payload: %w", err)
	}
	return &p, nil
}

// Validate checks that a payload has all required fields. Semantic problems
// in individual detections (odd confidence, inverted ranges) are tolerated
// here; the engine's validator surfaces those.
func Validate(p *DetectionPayload) error {
	if p.ClaimID == "" {
		return fmt.Errorf("claim_id is required")
	}
	if p.Version != "" && p.Version != PayloadVersion {
		return fmt.Errorf("unsupported payload version %q", p.Version)
	}
	for i, d := range p.Detections {
		if d.PartID == "" {
			return fmt.Errorf("detection %d: part_id is required", i)
		}
	}
	return nil
}

// Parts converts detections to damaged parts, merging duplicates: the same
// part seen on multiple photos collapses to one entry keeping the highest
// confidence, the worst severity, and the union of damage types. First-seen
// order is preserved.
func (p *DetectionPayload) Parts() []model.DamagedPart {
	parts := make([]model.DamagedPart, 0, len(p.Detections))
	index := make(map[string]int)

	for _, d := range p.Detections {
		key := model.NormalizePartID(d.PartID)
		if i, seen := index[key]; seen {
			parts[i] = mergePart(parts[i], d)
			continue
		}
		index[key] = len(parts)
		parts = append(parts, model.DamagedPart{
			PartID:           d.PartID,
			PartLabel:        d.PartLabel,
			Severity:         d.Severity,
			Confidence:       d.Confidence,
			EstimatedCostMin: d.EstimatedCostMin,
			EstimatedCostMax: d.EstimatedCostMax,
			DamageTypes:      d.DamageTypes,
		})
	}

	return parts
}

// mergePart folds another detection of the same part into an existing one.
func mergePart(p model.DamagedPart, d Detection) model.DamagedPart {
	if d.Confidence > p.Confidence {
		p.Confidence = d.Confidence
	}

	haveScore := model.SeverityScore[model.NormalizeSeverity(p.Severity)]
	newScore := model.SeverityScore[model.NormalizeSeverity(d.Severity)]
	if newScore > haveScore {
		p.Severity = d.Severity
	}

	for _, dt := range d.DamageTypes {
		if !hasDamageType(p.DamageTypes, dt.Type) {
			p.DamageTypes = append(p.DamageTypes, dt)
		}
	}

	return p
}

func hasDamageType(types []model.DamageType, name string) bool {
	for _, dt := range types {
		if model.NormalizePartID(dt.Type) == model.NormalizePartID(name) {
			return true
		}
	}
	return false
}

// Context builds the evaluation context carried alongside the parts.
func (p *DetectionPayload) Context() *model.PolicyContext {
	return &model.PolicyContext{
		ClaimID:      p.ClaimID,
		BatchID:      p.BatchID,
		ModelVersion: p.ModelVersion,
		PhotoCount:   len(p.Photos),
	}
}

// Write atomically writes a payload to dir/{claim_id}.json.
func Write(p *DetectionPayload, dir string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	dst := filepath.Join(dir, p.ClaimID+".json")
	tmp := dst + ".tmp"

	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename to final: %w", err)
	}
	return nil
}
