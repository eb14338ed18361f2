package ws

import "encoding/json"

// ClientMsg representa uma mensagem recebida do cliente WebSocket.
// O protocolo não tem subscribe por tópico: todo cliente conectado recebe
// todos os eventos. Só ping é tratado.
type ClientMsg struct {
	Type string `json:"type"` // ping
}

// Envelope é o formato comum de tudo que trafega no canal de broadcast:
// eventos de aposta, stats e leaderboard.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
