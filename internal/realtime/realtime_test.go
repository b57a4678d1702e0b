package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Windi-Fikriyansyah/workly_be/internal/services/notify"
	"github.com/Windi-Fikriyansyah/workly_be/internal/testutil"
)

func runHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub, cancel
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHubSendToUser(t *testing.T) {
	hub, _ := runHub(t)
	alice, bob := uuid.New(), uuid.New()

	a1 := NewClient(alice, nil)
	a2 := NewClient(alice, nil)
	b1 := NewClient(bob, nil)
	for _, c := range []*Client{a1, a2, b1} {
		require.True(t, hub.RegisterClient(c))
	}
	assert.Equal(t, 2, hub.Online(alice))

	hub.SendToUser(alice, map[string]string{"hello": "alice"})

	for _, c := range []*Client{a1, a2} {
		var got map[string]string
		require.NoError(t, json.Unmarshal(receive(t, c), &got))
		assert.Equal(t, "alice", got["hello"])
	}
	assert.Empty(t, b1.Send)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub, _ := runHub(t)
	uid := uuid.New()
	c := NewClient(uid, nil)
	require.True(t, hub.RegisterClient(c))

	hub.UnregisterClient(c)
	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Zero(t, hub.Online(uid))

	// sending to a user with no sockets is a no-op
	hub.SendRaw(uid, []byte("x"))
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub, _ := runHub(t)
	uid := uuid.New()
	c := NewClient(uid, nil)
	require.True(t, hub.RegisterClient(c))

	for i := 0; i < sendBuffer+10; i++ {
		hub.SendRaw(uid, []byte("x"))
	}
	assert.Len(t, c.Send, sendBuffer)
}

func TestHubStop(t *testing.T) {
	hub, cancel := runHub(t)
	c := NewClient(uuid.New(), nil)
	require.True(t, hub.RegisterClient(c))

	cancel()
	_, ok := <-c.Send
	assert.False(t, ok)

	assert.False(t, hub.RegisterClient(NewClient(uuid.New(), nil)))
	hub.UnregisterClient(c)
}

func TestBridgeForwardsPublishedNotifications(t *testing.T) {
	hub, _ := runHub(t)
	_, rdb := testutil.NewRedis(t)
	log := zaptest.NewLogger(t)

	uid := uuid.New()
	c := NewClient(uid, nil)
	require.True(t, hub.RegisterClient(c))

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	errc := make(chan error, 1)
	go func() { errc <- NewBridge(rdb, hub, log).Run(ctx, ready) }()
	t.Cleanup(func() {
		cancel()
		<-errc
	})

	select {
	case <-ready:
	case err := <-errc:
		t.Fatalf("bridge stopped: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("bridge did not subscribe")
	}

	jobID := uuid.New()
	notify.NewPublisher(rdb, log).Notify(context.Background(), uid, notify.Event{
		Type:  notify.EventJobCompleted,
		JobID: jobID,
	})
	// malformed channels are ignored
	require.NoError(t, rdb.Publish(context.Background(), notify.ChannelPrefix+"nope", "{}").Err())

	var ev notify.Event
	require.NoError(t, json.Unmarshal(receive(t, c), &ev))
	assert.Equal(t, notify.EventJobCompleted, ev.Type)
	assert.Equal(t, jobID, ev.JobID)
}
