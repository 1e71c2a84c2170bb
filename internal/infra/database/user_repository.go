package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gbcsales/pipeline-api/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// FindByID relê identidade e papel do ator. Chamado a cada drop para
// pegar mudança de papel ou de posse entre a renderização e o commit.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT id, name, email, role FROM users WHERE id = $1`

	var u entity.User
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if err == sql.ErrNoRows {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar usuário: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByToken(ctx context.Context, token string) (*entity.User, error) {
	query := `SELECT id, name, email, role FROM users WHERE api_token = $1`

	var u entity.User
	err := r.DB.QueryRowContext(ctx, query, token).Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if err == sql.ErrNoRows {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar usuário por token: %w", err)
	}
	return &u, nil
}
