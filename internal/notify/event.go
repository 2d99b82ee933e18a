// Package notify publishes ledger events (new expense, settlement, deletion)
// to whoever delivers notifications to group members.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// EventType names what happened in a group's ledger.
type EventType string

const (
	ExpenseCreated    EventType = "expense.created"
	ExpenseDeleted    EventType = "expense.deleted"
	SettlementCreated EventType = "settlement.recorded"
	GroupDeleted      EventType = "group.deleted"
)

// Event is the message published after a ledger change has been committed.
type Event struct {
	Type         EventType `json:"type"`
	GroupID      string    `json:"group_id"`
	ExpenseID    string    `json:"expense_id,omitempty"`
	ActorID      string    `json:"actor_id"`
	PayerID      string    `json:"payer_id,omitempty"`
	Amount       string    `json:"amount,omitempty"`
	Participants []string  `json:"participants,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ToJSON converts the event to JSON bytes.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an event.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// LogPublisher writes events to the structured log. It is the default when no
// broker is configured.
type LogPublisher struct{}

// Publish logs the event at INFO level.
func (LogPublisher) Publish(ctx context.Context, event Event) error {
	slog.InfoContext(ctx, "Ledger event",
		"type", event.Type,
		"group_id", event.GroupID,
		"expense_id", event.ExpenseID,
		"actor_id", event.ActorID,
		"amount", event.Amount,
	)
	return nil
}

// Close is a no-op.
func (LogPublisher) Close() error { return nil }
