package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gbcsales/pipeline-api/internal/entity"
)

type InteractionRepository struct {
	DB *sql.DB
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

// Append grava a nota de auditoria. Só INSERT: interações nunca são
// editadas nem apagadas por aqui.
func (r *InteractionRepository) Append(ctx context.Context, interaction *entity.Interaction) error {
	query := `
		INSERT INTO interactions (id, lead_id, author_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.DB.ExecContext(ctx, query,
		interaction.ID,
		interaction.LeadID,
		nullString(interaction.AuthorID),
		interaction.Text,
		interaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao gravar interação: %w", err)
	}
	return nil
}
