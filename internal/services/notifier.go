package services

// Event types pushed to the front-end. Scope-wide events carry no player id
// and fan out to everyone; the rest are addressed to one player.
const (
	EventBalance         = "BALANCE_UPDATE"
	EventBlackjackUpdate = "BLACKJACK_UPDATE"
	EventCrashTick       = "CRASH_TICK"
	EventCrashStage      = "CRASH_STAGE"
	EventDuelChallenge   = "DUEL_CHALLENGE"
	EventDuelResult      = "DUEL_RESULT"
	EventDuelExpired     = "DUEL_EXPIRED"
	EventHappyHour       = "HAPPY_HOUR"
	EventAudit           = "AUDIT"
)

type Event struct {
	Type     string         `json:"type"`
	PlayerID int64          `json:"player_id,omitempty"`
	Scope    string         `json:"scope,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Notifier delivers events to the rendering collaborator. The engine never
// decides how events are displayed, only that they happened.
type Notifier interface {
	Publish(ev Event)
}

// NopNotifier drops every event. Used in tests and as a safe default.
type NopNotifier struct{}

func (NopNotifier) Publish(Event) {}
