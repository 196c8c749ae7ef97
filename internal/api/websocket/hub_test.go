package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubStopEndsRunLoop(t *testing.T) {
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run()
		close(stopped)
	}()

	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- client
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.Stop()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	_, open := <-client.send
	assert.False(t, open, "client send channel must be closed on stop")
	assert.Zero(t, hub.ClientCount())
}

func TestHubStopIsIdempotentAndDropsLateBroadcasts(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	hub.Stop()
	require.NotPanics(t, hub.Stop)

	done := make(chan struct{})
	go func() {
		hub.Broadcast([]byte("late"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked after Stop")
	}
}
