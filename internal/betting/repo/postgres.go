package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/radieske/party-bet-platform/internal/betting"
)

// Postgres implementa betting.Store sobre Postgres. Toda transição é um
// UPDATE condicionado ao status esperado; zero linhas afetadas significa que
// a precondição caiu entre a leitura e a escrita, e o engine converte isso em
// invalid_state. Não há transação multi-linha: cada transição toca exatamente
// uma linha de bets.
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const betColumns = `id, proposition, stake, creator_id, creator_side, acceptor_id,
	status, outcome, winner_id, loser_id, created_at, accepted_at, resolved_at, completed_at`

func scanBet(row interface{ Scan(...any) error }) (*betting.Bet, error) {
	var b betting.Bet
	var acceptor, outcome, winner, loser sql.NullString
	var acceptedAt, resolvedAt, completedAt sql.NullTime

	err := row.Scan(
		&b.ID, &b.Proposition, &b.Stake, &b.CreatorID, &b.CreatorSide, &acceptor,
		&b.Status, &outcome, &winner, &loser, &b.CreatedAt, &acceptedAt, &resolvedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	b.AcceptorID = acceptor.String
	b.Outcome = betting.Side(outcome.String)
	b.WinnerID = winner.String
	b.LoserID = loser.String
	if acceptedAt.Valid {
		t := acceptedAt.Time
		b.AcceptedAt = &t
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		b.ResolvedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		b.CompletedAt = &t
	}
	return &b, nil
}

func (p *Postgres) GetBet(ctx context.Context, id string) (*betting.Bet, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+betColumns+` FROM bets WHERE id=$1`, id)
	b, err := scanBet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Postgres) InsertBet(ctx context.Context, b *betting.Bet) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bets (id, proposition, stake, creator_id, creator_side, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		b.ID, b.Proposition, b.Stake, b.CreatorID, b.CreatorSide, b.Status, b.CreatedAt,
	)
	return err
}

// ListBets retorna apostas filtradas por status e/ou participante,
// mais recentes primeiro.
func (p *Postgres) ListBets(ctx context.Context, f betting.BetFilter) ([]betting.Bet, error) {
	q := `SELECT ` + betColumns + ` FROM bets`
	var conds []string
	var args []any

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, `status=$1`)
	}
	if f.ParticipantID != "" {
		args = append(args, f.ParticipantID)
		if len(args) == 1 {
			conds = append(conds, `(creator_id=$1 OR acceptor_id=$1)`)
		} else {
			conds = append(conds, `(creator_id=$2 OR acceptor_id=$2)`)
		}
	}
	if len(conds) > 0 {
		q += ` WHERE ` + conds[0]
		if len(conds) == 2 {
			q += ` AND ` + conds[1]
		}
	}
	q += ` ORDER BY created_at DESC, id`

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []betting.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (p *Postgres) DeleteBet(ctx context.Context, id string) (bool, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM bets WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (p *Postgres) MarkAccepted(ctx context.Context, id, acceptorID string, at time.Time) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE bets SET status='ACCEPTED', acceptor_id=$1, accepted_at=$2
		WHERE id=$3 AND status='OPEN'`,
		acceptorID, at, id,
	)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (p *Postgres) MarkCancelled(ctx context.Context, id string) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE bets SET status='CANCELLED'
		WHERE id=$1 AND status='OPEN'`, id,
	)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (p *Postgres) MarkResolved(ctx context.Context, id string, outcome betting.Side, winnerID, loserID string, at time.Time) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE bets SET status='RESOLVED', outcome=$1, winner_id=$2, loser_id=$3, resolved_at=$4
		WHERE id=$5 AND status='ACCEPTED'`,
		outcome, winnerID, loserID, at, id,
	)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (p *Postgres) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE bets SET status='COMPLETED', completed_at=$1
		WHERE id=$2 AND status='RESOLVED'`,
		at, id,
	)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (p *Postgres) RevertToOpen(ctx context.Context, id string) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE bets SET status='OPEN', acceptor_id=NULL, accepted_at=NULL
		WHERE id=$1 AND status='ACCEPTED'`, id,
	)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
