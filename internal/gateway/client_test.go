package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedPair upgrades one connection into a registered FeedClient and
// returns the dialer side.
func feedPair(t *testing.T, reg *ClientRegistry) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	added := make(chan struct{})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		client := NewFeedClient(conn, silentLog())
		reg.Add(client)
		close(added)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				reg.Remove(client.ConnID)
				client.Close()
				return
			}
		}
	}))
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	dialer, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { dialer.Close() })
	<-added
	return dialer
}

func TestRegistryBroadcast(t *testing.T) {
	reg := NewClientRegistry(silentLog())
	a := feedPair(t, reg)
	b := feedPair(t, reg)
	assert.Equal(t, 2, reg.Count())

	reg.Broadcast(NewEventFrame("scam_detected", map[string]any{"sessionId": "s1"}, 7))

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var frame EventFrame
		require.NoError(t, conn.ReadJSON(&frame))
		assert.Equal(t, FrameTypeEvent, frame.Type)
		assert.Equal(t, "scam_detected", frame.Event)
		assert.Equal(t, "s1", frame.Data["sessionId"])
		assert.Equal(t, int64(7), frame.Seq)
	}
}

func TestRegistryRemoveOnDisconnect(t *testing.T) {
	reg := NewClientRegistry(silentLog())
	conn := feedPair(t, reg)
	require.Equal(t, 1, reg.Count())

	conn.Close()
	assert.Eventually(t, func() bool { return reg.Count() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestClientSendAfterClose(t *testing.T) {
	reg := NewClientRegistry(silentLog())
	feedPair(t, reg)

	// Reach into the registry for the server-side client.
	reg.mu.RLock()
	var client *FeedClient
	for _, c := range reg.clients {
		client = c
	}
	reg.mu.RUnlock()
	require.NotNil(t, client)

	require.NoError(t, client.Close())
	assert.NoError(t, client.Close()) // idempotent

	err := client.Send(NewEventFrame("agent_replied", nil, 1))
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestRegistryCloseAll(t *testing.T) {
	reg := NewClientRegistry(silentLog())
	feedPair(t, reg)
	feedPair(t, reg)
	require.Equal(t, 2, reg.Count())

	reg.CloseAll()
	assert.Equal(t, 0, reg.Count())
}
