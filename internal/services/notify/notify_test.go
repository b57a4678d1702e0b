package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Windi-Fikriyansyah/workly_be/internal/testutil"
)

func TestPublisherNotify(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	ctx := context.Background()

	userID := uuid.New()
	sub := rdb.Subscribe(ctx, Channel(userID))
	defer sub.Close()
	_, err := sub.Receive(ctx) // subscription confirmation
	require.NoError(t, err)

	p := NewPublisher(rdb, zaptest.NewLogger(t))
	jobID := uuid.New()
	p.Notify(ctx, userID, Event{Type: EventJobAccepted, JobID: jobID, ActorID: uuid.New()})

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "notifications:"+userID.String(), msg.Channel)

		var ev Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, EventJobAccepted, ev.Type)
		assert.Equal(t, jobID, ev.JobID)
		assert.False(t, ev.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received")
	}
}

func TestPublisherNotifySwallowsRedisErrors(t *testing.T) {
	mr, rdb := testutil.NewRedis(t)
	mr.Close()

	p := NewPublisher(rdb, zaptest.NewLogger(t))
	assert.NotPanics(t, func() {
		p.Notify(context.Background(), uuid.New(), Event{Type: EventJobRated})
	})
}
