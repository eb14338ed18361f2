package topics

const (
	// Jornal de eventos de apostas (consumido pelo bet-audit-worker)
	BetEvents = "bet_events"

	// DLQ
	BetEventsDLQ = "bet_events_dlq"
)
