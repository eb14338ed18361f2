package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/radieske/party-bet-platform/internal/betting"
)

// Postgres implementa o diretório de usuários: lookup por id/telefone e
// upsert por telefone normalizado (cria ou renomeia no lugar).
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

func (p *Postgres) UserByID(ctx context.Context, id string) (*betting.User, error) {
	return p.queryOne(ctx, `SELECT id, name, phone, created_at FROM users WHERE id=$1`, id)
}

func (p *Postgres) UserByPhone(ctx context.Context, phone string) (*betting.User, error) {
	return p.queryOne(ctx, `SELECT id, name, phone, created_at FROM users WHERE phone=$1`, phone)
}

func (p *Postgres) queryOne(ctx context.Context, q string, arg any) (*betting.User, error) {
	var u betting.User
	err := p.db.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.Name, &u.Phone, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert registra um usuário pelo telefone normalizado. Se já existir,
// atualiza o nome no lugar e mantém o id: é o "restore session" do registro.
// created=true somente quando um usuário novo foi criado.
func (p *Postgres) Upsert(ctx context.Context, name, phone string) (*betting.User, bool, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var u betting.User
	err = tx.QueryRowContext(ctx,
		`SELECT id, name, phone, created_at FROM users WHERE phone=$1 FOR UPDATE`, phone,
	).Scan(&u.ID, &u.Name, &u.Phone, &u.CreatedAt)

	switch {
	case err == sql.ErrNoRows:
		u = betting.User{ID: uuid.NewString(), Name: name, Phone: phone}
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO users (id, name, phone) VALUES ($1,$2,$3) RETURNING created_at`,
			u.ID, u.Name, u.Phone,
		).Scan(&u.CreatedAt); err != nil {
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return &u, true, nil

	case err != nil:
		return nil, false, err
	}

	if u.Name != name {
		if _, err := tx.ExecContext(ctx, `UPDATE users SET name=$1 WHERE id=$2`, name, u.ID); err != nil {
			return nil, false, err
		}
		u.Name = name
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return &u, false, nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]betting.User, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, name, phone, created_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []betting.User
	for rows.Next() {
		var u betting.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Phone, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
