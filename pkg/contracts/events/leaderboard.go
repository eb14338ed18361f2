package events

// LeaderboardEntry é a linha por usuário do placar.
// Outstanding = derrotas resolvidas mas ainda não pagas.
type LeaderboardEntry struct {
	UserID      string `json:"id"`
	Name        string `json:"name"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Outstanding int    `json:"outstanding"`
	TotalBets   int    `json:"total_bets"`
}

// LeaderboardEvent é publicado somente após transições RESOLVED/COMPLETED;
// nas demais os clientes consultam via REST.
type LeaderboardEvent struct {
	Type    string             `json:"type"` // leaderboard:updated
	Entries []LeaderboardEntry `json:"payload"`
}
