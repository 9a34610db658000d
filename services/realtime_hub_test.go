package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialHub starts a server that registers every websocket on hub and
// returns a connected client.
func dialHub(t *testing.T, hub *RealtimeHub) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(&WSClient{Conn: conn})
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestRealtimeHub_Broadcast(t *testing.T) {
	hub := NewRealtimeHub()
	conn := dialHub(t, hub)

	hub.Broadcast(map[string]any{"kind": EventRecordDeleted, "id": "abc"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, EventRecordDeleted, got["kind"])
	assert.Equal(t, "abc", got["id"])
}

func TestRealtimeHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewRealtimeHub()
	dialHub(t, hub)

	hub.mu.RLock()
	var cl *WSClient
	for c := range hub.clients {
		cl = c
	}
	hub.mu.RUnlock()

	hub.Unregister(cl)
	hub.Unregister(cl)
	assert.Equal(t, 0, hub.Count())
}

func TestHealthRecordService_BroadcastsMutations(t *testing.T) {
	hub := NewRealtimeHub()
	conn := dialHub(t, hub)
	svc := NewHealthRecordService(newTestStore(t), hub, nil)
	ctx := context.Background()

	created, err := svc.CreateRecord(ctx, input("2024-01-01", 36.6, 110, 70, 65))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRecord(ctx, created.ID))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var kinds []string
	for i := 0; i < 2; i++ {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var ev map[string]any
		require.NoError(t, json.Unmarshal(msg, &ev))
		kinds = append(kinds, ev["kind"].(string))
	}
	assert.Equal(t, []string{EventRecordCreated, EventRecordDeleted}, kinds)
}

func TestHealthRecordService_AlertsOnOutOfRangeVitals(t *testing.T) {
	hub := NewRealtimeHub()
	conn := dialHub(t, hub)
	svc := NewHealthRecordService(newTestStore(t), hub, nil)

	created, err := svc.CreateRecord(context.Background(), input("2024-01-01", 38.2, 130, 85, 105))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var events []map[string]any
	for i := 0; i < 2; i++ {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var ev map[string]any
		require.NoError(t, json.Unmarshal(msg, &ev))
		events = append(events, ev)
	}
	assert.Equal(t, EventRecordCreated, events[0]["kind"])
	assert.Equal(t, EventVitalsAlert, events[1]["kind"])
	assert.Equal(t, created.ID, events[1]["id"])
	assert.Len(t, events[1]["warnings"], 4)
}

func TestRealtimeHub_DropsClientThatStopsReading(t *testing.T) {
	hub := NewRealtimeHub()
	hub.writeWait = 200 * time.Millisecond
	dialHub(t, hub) // never read from

	big := strings.Repeat("x", 1<<20)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 64; i++ {
			hub.Broadcast(map[string]any{"kind": EventRecordUpdated, "pad": big})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast blocked on a client that does not read")
	}
	assert.Equal(t, 0, hub.Count())

	// registration still works afterwards
	conn := dialHub(t, hub)
	hub.Broadcast(map[string]any{"kind": EventRecordDeleted, "id": "abc"})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), EventRecordDeleted)
}
