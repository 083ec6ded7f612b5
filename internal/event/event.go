package event

// Channel is the ws/pusher channel all table events are published on.
const Channel = "crash-channel"

const (
	EventPhase         = "phase-event"
	EventMultiplier    = "multiplier-event"
	EventBetPlaced     = "bet-placed-event"
	EventCashOut       = "cash-out-event"
	EventOracleWarning = "oracle-warning-event"
	EventRoundResult   = "round-result-event"
)

// Publisher pushes game events to the presentation layer. Failures are
// advisory; the round lifecycle never depends on delivery.
type Publisher interface {
	Publish(event string, data map[string]any) error
}

// NopPublisher drops all events.
type NopPublisher struct{}

func (NopPublisher) Publish(string, map[string]any) error { return nil }
