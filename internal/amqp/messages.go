package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"despesas/internal/core"
)

// ChangeMessage is the wire form of a ledger change. It carries no expense
// data: consumers read the current state from the shared storage backend.
type ChangeMessage struct {
	Kind      core.ChangeKind `json:"kind"`
	ExpenseID string          `json:"expenseId,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewChangeMessage wraps a change event for publishing.
func NewChangeMessage(event core.ChangeEvent) *ChangeMessage {
	ts := event.At
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &ChangeMessage{Kind: event.Kind, ExpenseID: event.ExpenseID, Timestamp: ts}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// Event converts the message back to a domain event.
func (m *ChangeMessage) Event() core.ChangeEvent {
	return core.ChangeEvent{Kind: m.Kind, ExpenseID: m.ExpenseID, At: m.Timestamp}
}

// ChangeMessageFromJSON decodes a message and rejects unknown kinds.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Kind.Valid() {
		return nil, fmt.Errorf("unknown change kind %q", msg.Kind)
	}
	return &msg, nil
}
