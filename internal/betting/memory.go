package betting

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/party-bet-platform/pkg/contracts/events"
)

// MemStore é uma implementação em memória do Store, com a mesma semântica de
// check-and-set das transições condicionais do Postgres. Usada nos testes e
// em desenvolvimento local sem banco.
type MemStore struct {
	mu   sync.Mutex
	bets map[string]*Bet
}

func NewMemStore() *MemStore {
	return &MemStore{bets: make(map[string]*Bet)}
}

func (m *MemStore) GetBet(_ context.Context, id string) (*Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bets[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *MemStore) InsertBet(_ context.Context, b *Bet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.bets[b.ID] = &cp
	return nil
}

func (m *MemStore) ListBets(_ context.Context, f BetFilter) ([]Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Bet, 0, len(m.bets))
	for _, b := range m.bets {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.ParticipantID != "" && !b.IsParticipant(f.ParticipantID) {
			continue
		}
		out = append(out, *b)
	}
	// mesma ordenação do Postgres: created_at desc com id asc no empate
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemStore) DeleteBet(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bets[id]; !ok {
		return false, nil
	}
	delete(m.bets, id)
	return true, nil
}

// casUpdate aplica fn apenas se o bet existe e está no estado esperado.
func (m *MemStore) casUpdate(id string, expected Status, fn func(*Bet)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bets[id]
	if !ok || b.Status != expected {
		return false, nil
	}
	fn(b)
	return true, nil
}

func (m *MemStore) MarkAccepted(_ context.Context, id, acceptorID string, at time.Time) (bool, error) {
	return m.casUpdate(id, StatusOpen, func(b *Bet) {
		b.Status = StatusAccepted
		b.AcceptorID = acceptorID
		t := at
		b.AcceptedAt = &t
	})
}

func (m *MemStore) MarkCancelled(_ context.Context, id string) (bool, error) {
	return m.casUpdate(id, StatusOpen, func(b *Bet) {
		b.Status = StatusCancelled
	})
}

func (m *MemStore) MarkResolved(_ context.Context, id string, outcome Side, winnerID, loserID string, at time.Time) (bool, error) {
	return m.casUpdate(id, StatusAccepted, func(b *Bet) {
		b.Status = StatusResolved
		b.Outcome = outcome
		b.WinnerID = winnerID
		b.LoserID = loserID
		t := at
		b.ResolvedAt = &t
	})
}

func (m *MemStore) MarkCompleted(_ context.Context, id string, at time.Time) (bool, error) {
	return m.casUpdate(id, StatusResolved, func(b *Bet) {
		b.Status = StatusCompleted
		t := at
		b.CompletedAt = &t
	})
}

func (m *MemStore) RevertToOpen(_ context.Context, id string) (bool, error) {
	return m.casUpdate(id, StatusAccepted, func(b *Bet) {
		b.Status = StatusOpen
		b.AcceptorID = ""
		b.AcceptedAt = nil
	})
}

// MemDirectory é a implementação em memória do UserDirectory, com o mesmo
// upsert-por-telefone do diretório Postgres.
type MemDirectory struct {
	mu    sync.Mutex
	users map[string]*User
	order []string
}

func NewMemDirectory() *MemDirectory {
	return &MemDirectory{users: make(map[string]*User)}
}

// Put insere ou substitui um usuário diretamente (seed de testes).
func (m *MemDirectory) Put(u User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		m.order = append(m.order, u.ID)
	}
	cp := u
	m.users[u.ID] = &cp
}

func (m *MemDirectory) UserByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *MemDirectory) UserByPhone(_ context.Context, phone string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.order {
		if m.users[id].Phone == phone {
			cp := *m.users[id]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemDirectory) Upsert(_ context.Context, name, phone string) (*User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, uid := range m.order {
		if m.users[uid].Phone == phone {
			if m.users[uid].Name != name {
				m.users[uid].Name = name
			}
			cp := *m.users[uid]
			return &cp, false, nil
		}
	}
	id := uuid.NewString()
	u := &User{ID: id, Name: name, Phone: phone, CreatedAt: time.Now().UTC()}
	m.users[id] = u
	m.order = append(m.order, id)
	cp := *u
	return &cp, true, nil
}

func (m *MemDirectory) ListUsers(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]User, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.users[id])
	}
	return out, nil
}

// RecorderBroadcaster captura tudo que o engine publica, na ordem.
type RecorderBroadcaster struct {
	mu           sync.Mutex
	BetEvents    []events.BetEvent
	StatsEvents  []events.Stats
	Leaderboards [][]events.LeaderboardEntry
}

func NewRecorderBroadcaster() *RecorderBroadcaster { return &RecorderBroadcaster{} }

func (r *RecorderBroadcaster) PublishBetEvent(_ context.Context, ev events.BetEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.BetEvents = append(r.BetEvents, ev)
	return nil
}

func (r *RecorderBroadcaster) PublishStats(_ context.Context, st events.Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StatsEvents = append(r.StatsEvents, st)
	return nil
}

func (r *RecorderBroadcaster) PublishLeaderboard(_ context.Context, entries []events.LeaderboardEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Leaderboards = append(r.Leaderboards, entries)
	return nil
}

// LastBetEvent retorna o último evento de aposta publicado, ou nil.
func (r *RecorderBroadcaster) LastBetEvent() *events.BetEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.BetEvents) == 0 {
		return nil
	}
	ev := r.BetEvents[len(r.BetEvents)-1]
	return &ev
}
