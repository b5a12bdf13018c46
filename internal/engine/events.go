package engine

import "time"

type EventKind string

const (
	EventQuestCompleted   EventKind = "quest_completed"
	EventQuestFailed      EventKind = "quest_failed"
	EventQuestExpired     EventKind = "quest_expired"
	EventLevelUp          EventKind = "level_up"
	EventRankUp           EventKind = "rank_up"
	EventChainCompleted   EventKind = "chain_completed"
	EventStreakAdvanced   EventKind = "streak_advanced"
	EventStreakBroken     EventKind = "streak_broken"
	EventFreezeConsumed   EventKind = "freeze_consumed"
	EventMilestoneClaimed EventKind = "milestone_claimed"
	EventItemPurchased    EventKind = "item_purchased"
	EventItemActivated    EventKind = "item_activated"
	EventDailyRefresh     EventKind = "daily_refresh"
	EventPenaltiesReset   EventKind = "penalties_reset"
)

// Event records something noteworthy that happened inside a command.
// The host drains them after each call and may persist them as an audit log.
type Event struct {
	Kind   EventKind `json:"kind"`
	At     time.Time `json:"at"`
	Ref    string    `json:"ref,omitempty"`
	Amount int       `json:"amount,omitempty"`
	Note   string    `json:"note,omitempty"`
}

func (e *Engine) emit(kind EventKind, at time.Time, ref string, amount int, note string) {
	e.events = append(e.events, Event{Kind: kind, At: at, Ref: ref, Amount: amount, Note: note})
}

// DrainEvents returns and clears the events recorded since the last drain.
func (e *Engine) DrainEvents() []Event {
	out := e.events
	e.events = nil
	return out
}
