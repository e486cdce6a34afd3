package analytics

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestDashboard(t *testing.T, hub *Hub, businessID int64) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		require.NoError(t, err)
		hub.Register(businessID, conn)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.WatcherCount(businessID) == 1 },
		time.Second, 10*time.Millisecond)
	return conn
}

func TestHub_ReceivesBroadcastEvents(t *testing.T) {
	hub := NewHub()
	conn := dialTestDashboard(t, hub, 9)

	require.Equal(t, 1, hub.Broadcast(9, Event{Type: "view", BusinessID: 9, Source: "qr"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "view", got.Type)
	assert.Equal(t, "qr", got.Source)
}

// A dashboard tab that stops reading must never back up the feedback or
// view request path; its events get dropped and the client disconnected.
func TestHub_BroadcastDoesNotBlockOnStalledClient(t *testing.T) {
	hub := NewHub()
	dialTestDashboard(t, hub, 7)
	// The dialed connection is never read from.

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 64; j++ {
					hub.Broadcast(7, Event{Type: "feedback", BusinessID: 7, Rating: 5})
				}
			}()
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("broadcast blocked behind a client that stopped reading")
	}
}
