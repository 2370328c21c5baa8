package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/internal/queue"
)

func TestNewPublishing(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.FixedZone("MSK", 3*3600))
	event := queue.SlotHeldEvent{
		ReservationID: "res-1",
		EventTypeID:   3,
		UserIDs:       []int64{1, 2},
		SlotStart:     "2025-10-16T10:00:00Z",
		SlotEnd:       "2025-10-16T10:30:00Z",
	}

	msg, err := newPublishing(event, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, time.UTC, msg.Timestamp.Location())

	var decoded queue.SlotHeldEvent
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, event, decoded)
}

func TestNewPublishing_MarshalError(t *testing.T) {
	_, err := newPublishing(make(chan int), time.Now())
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	assert.NoError(t, p.PublishSlotHeld(context.Background(), queue.SlotHeldEvent{}))
	assert.NoError(t, p.PublishSlotReleased(context.Background(), queue.SlotReleasedEvent{}))
}
