package alert

import (
	"encoding/json"
	"fmt"
)

// FormatPayload builds the webhook body for the given format.
func FormatPayload(format string, event AlertEvent) ([]byte, error) {
	switch format {
	case "slack":
		return formatSlack(event)
	case "pagerduty":
		return formatPagerDuty(event)
	default:
		return formatGeneric(event)
	}
}

func formatGeneric(event AlertEvent) ([]byte, error) {
	return json.Marshal(event)
}

func formatSlack(event AlertEvent) ([]byte, error) {
	payload := map[string]any{
		"blocks": []any{
			map[string]any{
				"type": "header",
				"text": map[string]any{
					"type": "plain_text",
					"text": fmt.Sprintf("claimgate: %s", event.Recommendation),
				},
			},
			map[string]any{
				"type": "section",
				"fields": []any{
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Claim:* %s", event.ClaimID)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Assign to:* %s (P%d)", event.AssignTo, event.Priority)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Exposure:* %s", formatCents(event.TotalMax))},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Fraud risk:* %.2f", event.FraudRisk)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Reason:* %s", event.Reason)},
				},
			},
		},
	}
	return json.Marshal(payload)
}

func formatPagerDuty(event AlertEvent) ([]byte, error) {
	severity := "info"
	switch {
	case event.Priority >= 5:
		severity = "critical"
	case event.Priority >= 4:
		severity = "error"
	case event.Priority >= 3:
		severity = "warning"
	}

	payload := map[string]any{
		"event_action": "trigger",
		"payload": map[string]any{
			"summary":  fmt.Sprintf("claimgate %s: claim %s", event.Recommendation, event.ClaimID),
			"severity": severity,
			"source":   "claimgate",
			"custom_details": map[string]any{
				"claim_id":   event.ClaimID,
				"assign_to":  event.AssignTo,
				"priority":   event.Priority,
				"total_max":  event.TotalMax,
				"fraud_risk": event.FraudRisk,
				"reason":     event.Reason,
			},
		},
	}
	return json.Marshal(payload)
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
