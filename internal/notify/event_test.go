package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON(t *testing.T) {
	event := Event{
		Type:         SettlementCreated,
		GroupID:      "g1",
		ExpenseID:    "e1",
		ActorID:      "bob",
		PayerID:      "bob",
		Amount:       "10.00",
		Participants: []string{"alice"},
		OccurredAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := event.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"settlement.recorded"`)
	assert.Contains(t, string(data), `"amount":"10.00"`)

	decoded, err := EventFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, event.Type, decoded.Type)
	assert.Equal(t, event.Participants, decoded.Participants)
	assert.True(t, event.OccurredAt.Equal(decoded.OccurredAt))

	_, err = EventFromJSON([]byte("not json"))
	assert.Error(t, err)
}

func TestLogPublisher(t *testing.T) {
	var p Publisher = LogPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: ExpenseCreated, GroupID: "g1"}))
	assert.NoError(t, p.Close())
}
