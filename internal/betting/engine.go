package betting

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/party-bet-platform/pkg/contracts/events"
)

// Store é o contrato de persistência das apostas. Cada transição é um UPDATE
// condicionado ao estado esperado: retorno false significa que a precondição
// não valia mais no momento da escrita (check-and-set otimista).
type Store interface {
	GetBet(ctx context.Context, id string) (*Bet, error) // (nil, nil) quando ausente
	InsertBet(ctx context.Context, b *Bet) error
	ListBets(ctx context.Context, f BetFilter) ([]Bet, error)
	DeleteBet(ctx context.Context, id string) (bool, error)

	MarkAccepted(ctx context.Context, id, acceptorID string, at time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id string) (bool, error)
	MarkResolved(ctx context.Context, id string, outcome Side, winnerID, loserID string, at time.Time) (bool, error)
	MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error)
	RevertToOpen(ctx context.Context, id string) (bool, error)
}

// BetFilter restringe a listagem por status e/ou participante.
type BetFilter struct {
	Status        Status
	ParticipantID string
}

// UserDirectory é a consulta de identidade usada pelo engine: enriquecimento
// dos eventos e agregações.
type UserDirectory interface {
	UserByID(ctx context.Context, id string) (*User, error) // (nil, nil) quando ausente
	ListUsers(ctx context.Context) ([]User, error)
}

// Broadcaster publica eventos para todos os assinantes conectados.
// Entrega best-effort: falha de publicação não desfaz a transição já
// persistida, apenas gera warning.
type Broadcaster interface {
	PublishBetEvent(ctx context.Context, ev events.BetEvent) error
	PublishStats(ctx context.Context, st events.Stats) error
	PublishLeaderboard(ctx context.Context, entries []events.LeaderboardEntry) error
}

// Journal é o append opcional no jornal Kafka de eventos de aposta.
type Journal interface {
	AppendBetEvent(ctx context.Context, ev events.BetEvent) error
}

// Engine aplica a máquina de estados das apostas: valida a transição,
// persiste a nova linha e dispara broadcast do evento + stats recalculadas.
type Engine struct {
	Log   *zap.Logger
	Store Store
	Users UserDirectory
	Pub   Broadcaster

	// Opcionais
	Journal      Journal      // jornal Kafka para o audit worker
	OnTransition func(string) // métricas (counter++ por tipo de evento)

	now func() time.Time
}

func NewEngine(log *zap.Logger, store Store, users UserDirectory, pub Broadcaster) *Engine {
	return &Engine{
		Log:   log,
		Store: store,
		Users: users,
		Pub:   pub,
		now:   time.Now,
	}
}

// Create registra uma nova aposta em OPEN.
func (e *Engine) Create(ctx context.Context, proposition, stake string, side Side, creatorID string) (*events.BetSnapshot, error) {
	if strings.TrimSpace(proposition) == "" || strings.TrimSpace(stake) == "" || creatorID == "" {
		return nil, errValidation("proposition, stake, creatorSide, and userId are required")
	}
	if !side.Valid() {
		return nil, errValidation("creatorSide must be YES or NO")
	}

	creator, err := e.Users.UserByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, errNotFound("User not found")
	}

	bet := &Bet{
		ID:          uuid.NewString(),
		Proposition: proposition,
		Stake:       stake,
		CreatorID:   creatorID,
		CreatorSide: side,
		Status:      StatusOpen,
		CreatedAt:   e.now().UTC(),
	}
	if err := e.Store.InsertBet(ctx, bet); err != nil {
		return nil, err
	}

	snap := e.enrich(ctx, bet)
	e.emit(ctx, events.BetCreated, snap)
	return snap, nil
}

// Accept transiciona OPEN -> ACCEPTED. Sob disputas concorrentes pelo mesmo
// bet, o UPDATE condicional garante que no máximo um aceitante vence; quem
// perde a corrida recebe invalid_state, nunca sobrescrita silenciosa.
func (e *Engine) Accept(ctx context.Context, betID, userID string) (*events.BetSnapshot, error) {
	if userID == "" {
		return nil, errValidation("userId is required")
	}

	bet, err := e.Store.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet == nil {
		return nil, errNotFound("Bet not found")
	}
	if bet.Status != StatusOpen {
		return nil, errInvalidState("Bet is no longer open")
	}
	if bet.CreatorID == userID {
		return nil, errForbidden("You cannot accept your own bet")
	}

	user, err := e.Users.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errNotFound("User not found")
	}

	at := e.now().UTC()
	ok, err := e.Store.MarkAccepted(ctx, betID, userID, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		// outra aceitação (ou cancelamento) chegou primeiro
		return nil, errInvalidState("Bet is no longer open")
	}

	bet.Status = StatusAccepted
	bet.AcceptorID = userID
	bet.AcceptedAt = &at

	snap := e.enrich(ctx, bet)
	e.emit(ctx, events.BetAccepted, snap)
	return snap, nil
}

// Cancel transiciona OPEN -> CANCELLED, somente pelo criador.
func (e *Engine) Cancel(ctx context.Context, betID, userID string) (*events.BetSnapshot, error) {
	if userID == "" {
		return nil, errValidation("userId is required")
	}

	bet, err := e.Store.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet == nil {
		return nil, errNotFound("Bet not found")
	}
	if bet.Status != StatusOpen {
		return nil, errInvalidState("Only open bets can be cancelled")
	}
	if bet.CreatorID != userID {
		return nil, errForbidden("Only the creator can cancel this bet")
	}

	ok, err := e.Store.MarkCancelled(ctx, betID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errInvalidState("Only open bets can be cancelled")
	}

	bet.Status = StatusCancelled

	snap := e.enrich(ctx, bet)
	e.emit(ctx, events.BetCancelled, snap)
	return snap, nil
}

// Resolve transiciona ACCEPTED -> RESOLVED, por qualquer participante,
// fixando outcome, vencedor e perdedor.
func (e *Engine) Resolve(ctx context.Context, betID, userID string, outcome Side) (*events.BetSnapshot, error) {
	if userID == "" {
		return nil, errValidation("userId and outcome are required")
	}
	if !outcome.Valid() {
		return nil, errValidation("outcome must be YES or NO")
	}

	bet, err := e.Store.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet == nil {
		return nil, errNotFound("Bet not found")
	}
	if bet.Status != StatusAccepted {
		return nil, errInvalidState("Only accepted bets can be resolved")
	}
	if !bet.IsParticipant(userID) {
		return nil, errForbidden("Only participants can resolve this bet")
	}

	winnerID, loserID := bet.Settle(outcome)

	at := e.now().UTC()
	ok, err := e.Store.MarkResolved(ctx, betID, outcome, winnerID, loserID, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errInvalidState("Only accepted bets can be resolved")
	}

	bet.Status = StatusResolved
	bet.Outcome = outcome
	bet.WinnerID = winnerID
	bet.LoserID = loserID
	bet.ResolvedAt = &at

	snap := e.enrich(ctx, bet)
	e.emit(ctx, events.BetResolved, snap)
	e.pushLeaderboard(ctx)
	return snap, nil
}

// Complete transiciona RESOLVED -> COMPLETED: o perdedor pagou a aposta.
func (e *Engine) Complete(ctx context.Context, betID, userID string) (*events.BetSnapshot, error) {
	if userID == "" {
		return nil, errValidation("userId is required")
	}

	bet, err := e.Store.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet == nil {
		return nil, errNotFound("Bet not found")
	}
	if bet.Status != StatusResolved {
		return nil, errInvalidState("Only resolved bets can be marked complete")
	}
	if !bet.IsParticipant(userID) {
		return nil, errForbidden("Only participants can complete this bet")
	}

	at := e.now().UTC()
	ok, err := e.Store.MarkCompleted(ctx, betID, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errInvalidState("Only resolved bets can be marked complete")
	}

	bet.Status = StatusCompleted
	bet.CompletedAt = &at

	snap := e.enrich(ctx, bet)
	e.emit(ctx, events.BetCompleted, snap)
	e.pushLeaderboard(ctx)
	return snap, nil
}

// AdminDelete remove a aposta em qualquer estado. O broadcast sai como
// bet:cancelled com deleted=true: o protocolo de eventos não tem um tipo
// próprio para remoção.
func (e *Engine) AdminDelete(ctx context.Context, betID string) (*events.BetSnapshot, error) {
	bet, err := e.Store.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet == nil {
		return nil, errNotFound("Bet not found")
	}

	// snapshot enriquecido antes de apagar a linha
	snap := e.enrich(ctx, bet)

	ok, err := e.Store.DeleteBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotFound("Bet not found")
	}

	snap.Status = string(StatusCancelled)
	snap.Deleted = true
	e.emit(ctx, events.BetCancelled, snap)
	return snap, nil
}

// AdminUndoAccept reverte ACCEPTED -> OPEN, limpando aceitante e accepted_at.
// É a única transição que anda para trás; a aposta reaberta é anunciada como
// bet:created.
func (e *Engine) AdminUndoAccept(ctx context.Context, betID string) (*events.BetSnapshot, error) {
	bet, err := e.Store.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet == nil {
		return nil, errNotFound("Bet not found")
	}
	if bet.Status != StatusAccepted {
		return nil, errInvalidState("Only accepted bets can be reverted")
	}

	ok, err := e.Store.RevertToOpen(ctx, betID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errInvalidState("Only accepted bets can be reverted")
	}

	bet.Status = StatusOpen
	bet.AcceptorID = ""
	bet.AcceptedAt = nil

	snap := e.enrich(ctx, bet)
	e.emit(ctx, events.BetCreated, snap)
	return snap, nil
}

// Get retorna o detalhe enriquecido de uma aposta.
func (e *Engine) Get(ctx context.Context, betID string) (*events.BetSnapshot, error) {
	bet, err := e.Store.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet == nil {
		return nil, errNotFound("Bet not found")
	}
	return e.enrich(ctx, bet), nil
}

// List retorna as apostas filtradas, mais recentes primeiro.
func (e *Engine) List(ctx context.Context, f BetFilter) ([]events.BetSnapshot, error) {
	bets, err := e.Store.ListBets(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]events.BetSnapshot, 0, len(bets))
	for i := range bets {
		out = append(out, *e.enrich(ctx, &bets[i]))
	}
	return out, nil
}

// Leaderboard recalcula o placar completo sob demanda.
func (e *Engine) Leaderboard(ctx context.Context) ([]events.LeaderboardEntry, error) {
	us, err := e.Users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	bets, err := e.Store.ListBets(ctx, BetFilter{})
	if err != nil {
		return nil, err
	}
	return ComputeLeaderboard(us, bets), nil
}

// Stats recalcula os contadores globais sob demanda.
func (e *Engine) Stats(ctx context.Context) (events.Stats, error) {
	us, err := e.Users.ListUsers(ctx)
	if err != nil {
		return events.Stats{}, err
	}
	bets, err := e.Store.ListBets(ctx, BetFilter{})
	if err != nil {
		return events.Stats{}, err
	}
	return ComputeStats(bets, len(us)), nil
}

// UserStats recalcula os contadores individuais de um usuário.
func (e *Engine) UserStats(ctx context.Context, userID string) (UserStats, error) {
	bets, err := e.Store.ListBets(ctx, BetFilter{ParticipantID: userID})
	if err != nil {
		return UserStats{}, err
	}
	return ComputeUserStats(userID, bets), nil
}

// enrich resolve ids para nomes de exibição no momento da leitura.
// Usuários renomeados aparecem com o nome novo em leituras futuras, mas
// eventos já transmitidos não mudam.
func (e *Engine) enrich(ctx context.Context, b *Bet) *events.BetSnapshot {
	snap := &events.BetSnapshot{
		ID:          b.ID,
		Proposition: b.Proposition,
		Stake:       b.Stake,
		CreatorID:   b.CreatorID,
		CreatorSide: string(b.CreatorSide),
		AcceptorID:  b.AcceptorID,
		Status:      string(b.Status),
		Outcome:     string(b.Outcome),
		WinnerID:    b.WinnerID,
		LoserID:     b.LoserID,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
	if b.AcceptedAt != nil {
		snap.AcceptedAt = b.AcceptedAt.Format(time.RFC3339)
	}
	if b.ResolvedAt != nil {
		snap.ResolvedAt = b.ResolvedAt.Format(time.RFC3339)
	}
	if b.CompletedAt != nil {
		snap.CompletedAt = b.CompletedAt.Format(time.RFC3339)
	}

	snap.CreatorName = e.lookupName(ctx, b.CreatorID, "Unknown")
	snap.AcceptorName = e.lookupName(ctx, b.AcceptorID, "")
	snap.WinnerName = e.lookupName(ctx, b.WinnerID, "")
	snap.LoserName = e.lookupName(ctx, b.LoserID, "")
	return snap
}

func (e *Engine) lookupName(ctx context.Context, userID, fallback string) string {
	if userID == "" {
		return ""
	}
	u, err := e.Users.UserByID(ctx, userID)
	if err != nil || u == nil {
		return fallback
	}
	return u.Name
}

// emit publica o evento da aposta, alimenta o jornal e dispara o broadcast
// de stats recalculadas. Tudo best-effort: a transição já foi persistida.
func (e *Engine) emit(ctx context.Context, kind string, snap *events.BetSnapshot) {
	ev := events.BetEvent{
		Type:     kind,
		Bet:      *snap,
		TsUnixMs: e.now().UnixMilli(),
	}

	if err := e.Pub.PublishBetEvent(ctx, ev); err != nil {
		e.Log.Warn("publish bet event", zap.String("type", kind), zap.String("betId", snap.ID), zap.Error(err))
	}
	if e.Journal != nil {
		if err := e.Journal.AppendBetEvent(ctx, ev); err != nil {
			e.Log.Warn("journal append", zap.String("type", kind), zap.String("betId", snap.ID), zap.Error(err))
		}
	}
	if e.OnTransition != nil {
		e.OnTransition(kind)
	}

	st, err := e.Stats(ctx)
	if err != nil {
		e.Log.Warn("recompute stats", zap.Error(err))
		return
	}
	if err := e.Pub.PublishStats(ctx, st); err != nil {
		e.Log.Warn("publish stats", zap.Error(err))
	}
}

// pushLeaderboard empurra o placar recalculado. Só acontece após
// RESOLVED/COMPLETED; nas outras transições o placar não muda.
func (e *Engine) pushLeaderboard(ctx context.Context) {
	entries, err := e.Leaderboard(ctx)
	if err != nil {
		e.Log.Warn("recompute leaderboard", zap.Error(err))
		return
	}
	if err := e.Pub.PublishLeaderboard(ctx, entries); err != nil {
		e.Log.Warn("publish leaderboard", zap.Error(err))
	}
}
