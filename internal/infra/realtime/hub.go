package realtime

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/gbcsales/pipeline-api/internal/infra/queue"
)

// InvalidationMessage é o que o board aberto recebe: só o suficiente
// para decidir "invalida e refaz o fetch". Nunca um patch fino.
type InvalidationMessage struct {
	Action string `json:"action"`
	Board  string `json:"board,omitempty"`
	LeadID string `json:"lead_id,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub mantém os boards conectados e faz o broadcast das invalidações.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// BroadcastInvalidation implementa queue.BoardBroadcaster.
func (h *Hub) BroadcastInvalidation(payload queue.BoardChangedPayload) {
	msg := InvalidationMessage{
		Action: "invalidate",
		Board:  payload.Board,
		LeadID: payload.LeadID,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteJSON(msg); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}

// Handle faz o upgrade e prende a conexão até o cliente sumir.
// O cliente não manda nada útil; a leitura só detecta desconexão.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// O Upgrade já respondeu o erro HTTP.
		log.Printf("⚠️ Falha no upgrade de websocket: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	total := len(h.clients)
	h.mu.Unlock()

	log.Printf("🔌 Board conectado (%d ao todo)", total)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}
