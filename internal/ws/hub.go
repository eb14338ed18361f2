package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// client embrulha a conexão com um lock de escrita: o pong (goroutine de
// leitura da conexão) e o Broadcast (goroutine do subscriber Redis) escrevem
// na mesma conexão, e o gorilla/websocket só admite um escritor por vez.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub gerencia o conjunto de conexões WebSocket. Sem filtragem por cliente:
// cada broadcast vai para todas as conexões vivas no momento do publish
// (entrega best-effort, at-most-once). Quem conecta depois perdeu o evento e
// ressincroniza via REST.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	conns    map[*client]struct{}

	// Opcionais, para métricas de conexões
	OnConnect    func()
	OnDisconnect func()
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		conns:    make(map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão: registra no set, responde
// pings e remove a conexão ao desconectar.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	c := &client{conn: conn}
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	if h.OnConnect != nil {
		h.OnConnect()
	}

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if msg.Type == "ping" {
			_ = c.writeJSON(map[string]string{"type": "pong"})
		}
	}

	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	if h.OnDisconnect != nil {
		h.OnDisconnect()
	}
}

// Broadcast envia o payload bruto para todas as conexões ativas.
func (h *Hub) Broadcast(raw []byte) {
	h.mu.RLock()
	conns := make([]*client, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		_ = c.write(websocket.TextMessage, raw)
	}
}

// Clients retorna o número de conexões ativas.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
