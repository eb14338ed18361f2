package events

// Tipos de evento emitidos a cada transição de estado de uma aposta.
// admin-delete reaproveita BetCancelled com Deleted=true no payload;
// não existe um tipo próprio para remoção.
const (
	BetCreated   = "bet:created"
	BetAccepted  = "bet:accepted"
	BetResolved  = "bet:resolved"
	BetCompleted = "bet:completed"
	BetCancelled = "bet:cancelled"

	StatsUpdated       = "stats:updated"
	LeaderboardUpdated = "leaderboard:updated"
)

// BetSnapshot é a visão enriquecida de uma aposta enviada aos assinantes.
// Nomes são resolvidos no momento da leitura (join-at-read): um rename entre
// dois eventos aparece apenas nos eventos seguintes.
type BetSnapshot struct {
	ID          string `json:"id"`
	Proposition string `json:"proposition"`
	Stake       string `json:"stake"`
	CreatorID   string `json:"creator_id"`
	CreatorSide string `json:"creator_side"` // YES | NO
	AcceptorID  string `json:"acceptor_id,omitempty"`
	Status      string `json:"status"`
	Outcome     string `json:"outcome,omitempty"` // YES | NO
	WinnerID    string `json:"winner_id,omitempty"`
	LoserID     string `json:"loser_id,omitempty"`

	CreatorName  string `json:"creator_name"`
	AcceptorName string `json:"acceptor_name,omitempty"`
	WinnerName   string `json:"winner_name,omitempty"`
	LoserName    string `json:"loser_name,omitempty"`

	CreatedAt   string `json:"created_at"`
	AcceptedAt  string `json:"accepted_at,omitempty"`
	ResolvedAt  string `json:"resolved_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`

	// Marcador de remoção administrativa (evento bet:cancelled)
	Deleted bool `json:"deleted,omitempty"`
}

// BetEvent é a mensagem publicada no canal de broadcast e no jornal Kafka.
type BetEvent struct {
	Type     string      `json:"type"`
	Bet      BetSnapshot `json:"payload"`
	TsUnixMs int64       `json:"ts_unix_ms,omitempty"`
}
