package ws

import (
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

// dialPair upgrades a real websocket connection and returns both ends.
func dialPair(t *testing.T) (server *websocket.Conn, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(2 * time.Second):
		t.Fatal("server connection not established")
	}
	t.Cleanup(func() { server.Close() })

	return server, client
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	serverConn, _ := dialPair(t)

	connID := hub.Register(&Client{UserID: 1, Username: "alice", Conn: serverConn})
	assert.NotZero(t, connID)
	assert.Equal(t, 1, hub.ConnectionCount())
	assert.True(t, hub.IsOnline(1))
	assert.False(t, hub.IsOnline(2))

	hub.Unregister(connID)
	assert.Equal(t, 0, hub.ConnectionCount())
	assert.False(t, hub.IsOnline(1))
}

func TestHub_SameUserMultipleConnections(t *testing.T) {
	hub := NewHub()
	conn1, _ := dialPair(t)
	conn2, _ := dialPair(t)

	id1 := hub.Register(&Client{UserID: 1, Username: "alice", Conn: conn1})
	id2 := hub.Register(&Client{UserID: 1, Username: "alice", Conn: conn2})
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, hub.ConnectionCount())

	hub.Unregister(id1)
	// Still online through the second connection
	assert.True(t, hub.IsOnline(1))
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	server1, client1 := dialPair(t)
	server2, client2 := dialPair(t)

	hub.Register(&Client{UserID: 1, Username: "alice", Conn: server1})
	hub.Register(&Client{UserID: 2, Username: "bob", Conn: server2})

	require.NoError(t, hub.Broadcast(map[string]string{"type": "new_comment"}))

	msg1 := readMessage(t, client1)
	msg2 := readMessage(t, client2)
	assert.Equal(t, "new_comment", msg1["type"])
	assert.Equal(t, "new_comment", msg2["type"])
}

func TestHub_BroadcastExcept(t *testing.T) {
	hub := NewHub()
	server1, client1 := dialPair(t)
	server2, client2 := dialPair(t)

	senderID := hub.Register(&Client{UserID: 1, Username: "alice", Conn: server1})
	hub.Register(&Client{UserID: 2, Username: "bob", Conn: server2})

	require.NoError(t, hub.BroadcastExcept(senderID, map[string]string{"type": "user_typing"}))

	msg := readMessage(t, client2)
	assert.Equal(t, "user_typing", msg["type"])

	// The sender's connection stays silent
	require.NoError(t, client1.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := client1.ReadMessage()
	assert.Error(t, err)
}

func TestHub_BroadcastSurvivesDeadConnection(t *testing.T) {
	hub := NewHub()
	server1, _ := dialPair(t)
	server2, client2 := dialPair(t)

	hub.Register(&Client{UserID: 1, Username: "alice", Conn: server1})
	hub.Register(&Client{UserID: 2, Username: "bob", Conn: server2})

	server1.Close()

	// Delivery is best effort: the healthy connection still gets the message
	require.NoError(t, hub.Broadcast(map[string]string{"type": "new_comment"}))
	msg := readMessage(t, client2)
	assert.Equal(t, "new_comment", msg["type"])
}
