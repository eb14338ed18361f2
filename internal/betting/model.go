package betting

import (
	"time"
)

// Status é o estado do ciclo de vida de uma aposta.
// COMPLETED e CANCELLED são terminais; a única transição que volta atrás
// é o admin-undo-accept (ACCEPTED -> OPEN).
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusAccepted  Status = "ACCEPTED"
	StatusResolved  Status = "RESOLVED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Side é a posição de um participante sobre a proposição.
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

func (s Side) Valid() bool {
	return s == SideYes || s == SideNo
}

// Bet é a entidade central. id, proposition, stake, creator_id e creator_side
// são imutáveis após a criação; os demais campos são preenchidos por
// transições específicas e nunca limpos retroativamente, exceto pelo
// admin-undo-accept.
type Bet struct {
	ID          string
	Proposition string
	Stake       string
	CreatorID   string
	CreatorSide Side
	AcceptorID  string // vazio até ACCEPTED
	Status      Status
	Outcome     Side // vazio até RESOLVED
	WinnerID    string
	LoserID     string

	CreatedAt   time.Time
	AcceptedAt  *time.Time
	ResolvedAt  *time.Time
	CompletedAt *time.Time
}

// IsParticipant indica se o usuário é criador ou aceitante da aposta.
func (b *Bet) IsParticipant(userID string) bool {
	return b.CreatorID == userID || (b.AcceptorID != "" && b.AcceptorID == userID)
}

// Settle determina vencedor e perdedor comparando o outcome com o lado
// declarado pelo criador.
func (b *Bet) Settle(outcome Side) (winnerID, loserID string) {
	if outcome == b.CreatorSide {
		return b.CreatorID, b.AcceptorID
	}
	return b.AcceptorID, b.CreatorID
}

// User é a identidade mínima de um participante: nome de exibição e telefone
// normalizado como chave única. O nome pode ser atualizado num re-registro
// com o mesmo telefone.
type User struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
