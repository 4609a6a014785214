package alert

// Dispatcher routes claim events to the webhook destinations whose Events
// list subscribes to them. A destination can subscribe to recommendation
// codes (ESCALATE_SENIOR, ...) or to the synthetic event types fraud_review
// and significant_override.
type Dispatcher struct {
	configs []AlertConfig
}

// NewDispatcher builds a Dispatcher, or nil when there are no destinations.
// Dispatch on a nil Dispatcher is a no-op, so callers need no guard.
func NewDispatcher(configs []AlertConfig) *Dispatcher {
	if len(configs) == 0 {
		return nil
	}
	return &Dispatcher{configs: configs}
}

// Dispatch fans the event out to every subscribed destination. Delivery
// happens in goroutines; a slow or failing webhook never blocks claim
// evaluation.
func (d *Dispatcher) Dispatch(event AlertEvent) {
	if d == nil {
		return
	}
	for _, cfg := range d.configs {
		if subscribed(cfg.Events, event) {
			go Send(cfg, event)
		}
	}
}

func subscribed(events []string, event AlertEvent) bool {
	for _, e := range events {
		if e == event.Recommendation {
			return true
		}
		if event.Type != "" && e == event.Type {
			return true
		}
	}
	return false
}
