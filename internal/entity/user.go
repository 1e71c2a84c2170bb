package entity

import (
	"context"
	"errors"
)

// Papéis de acesso. Viewer nunca escreve; admin escreve tudo;
// closer e sdr só escrevem nos leads que possuem.
const (
	RoleAdmin  = "admin"
	RoleCloser = "closer"
	RoleSDR    = "sdr"
	RoleViewer = "viewer"
)

var ErrUserNotFound = errors.New("usuário não encontrado")

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CanWrite é o oráculo de permissão: (papel, ator, dono) -> pode escrever.
// Papel desconhecido nega (fail closed).
func CanWrite(role, actorID string, ownerID *string) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleCloser, RoleSDR:
		return ownerID != nil && *ownerID == actorID
	default:
		return false
	}
}

// CanWriteLead é o mesmo oráculo aplicado a um par (ator, lead).
func (u *User) CanWriteLead(lead *Lead) bool {
	return CanWrite(u.Role, u.ID, lead.OwnerID)
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByToken(ctx context.Context, token string) (*User, error)
}
