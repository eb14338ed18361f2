package events

// Stats são os contadores globais recalculados após cada mutação.
type Stats struct {
	OpenBets     int `json:"open_bets"`
	ActiveBets   int `json:"active_bets"`
	ResolvedBets int `json:"resolved_bets"`
	TotalUsers   int `json:"total_users"`
}

// StatsEvent envelopa Stats para o canal de broadcast.
type StatsEvent struct {
	Type  string `json:"type"` // stats:updated
	Stats Stats  `json:"payload"`
}
