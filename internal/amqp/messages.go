package amqp

import (
	"encoding/json"
	"time"
)

// Record kinds carried in export events.
const (
	KindIncome       = "income"
	KindExpense      = "expense"
	KindMacroExpense = "macro_expense"
)

// Event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// RecordEvent is a lightweight ledger change notification. It carries
// only identifiers; the export worker fetches the full record from the
// store when it processes the event.
type RecordEvent struct {
	Kind      string    `json:"kind"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordEvent builds an event for a ledger change.
func NewRecordEvent(kind, action, id, owner string) *RecordEvent {
	return &RecordEvent{
		Kind:      kind,
		Action:    action,
		ID:        id,
		Owner:     owner,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON decodes an event from JSON bytes.
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var ev RecordEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
