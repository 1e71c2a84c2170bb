package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/gbcsales/pipeline-api/internal/infra/queue"
)

// Request comum (sem handshake de websocket) recebe só a resposta de
// erro do próprio upgrade.
func TestHandleRejectsPlainHTTPRequest(t *testing.T) {
	hub := NewHub()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws/board", nil)
	hub.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	assert.Empty(t, hub.clients)
}

func TestBroadcastInvalidationReachesClient(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, time.Second, 5*time.Millisecond)

	hub.BroadcastInvalidation(queue.BoardChangedPayload{
		LeadID: "lead-1",
		Board:  "mentoria",
		Action: "stage_moved",
	})

	var msg InvalidationMessage
	conn.SetReadDeadline(time.Now().Add(time.Second))
	assert.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "invalidate", msg.Action)
	assert.Equal(t, "mentoria", msg.Board)
	assert.Equal(t, "lead-1", msg.LeadID)
}
