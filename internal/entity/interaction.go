package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Interaction é a nota de auditoria anexada ao lead a cada movimento.
// Append-only: nunca é editada nem apagada por este serviço.
type Interaction struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func NewInteraction(leadID, authorID, text string) (*Interaction, error) {
	if leadID == "" {
		return nil, errors.New("lead_id é obrigatório")
	}
	if text == "" {
		return nil, errors.New("texto da interação é obrigatório")
	}
	return &Interaction{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now(),
	}, nil
}

type InteractionRepositoryInterface interface {
	Append(ctx context.Context, interaction *Interaction) error
}
