package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/gbcsales/pipeline-api/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, name, email, phone, product, stage, owner_id, deal_value,
	payment_type, cash_amount, installment_amount, down_payment_amount,
	next_contact, next_follow_up, loss_category, loss_text,
	interesse_mentoria_fast, score, last_interaction_at, reminder_sent_at,
	created_at, updated_at
`

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar lead: %w", err)
	}
	return lead, nil
}

// Fetch traduz o filtro do board para WHERE/ORDER BY no servidor.
// A filtragem nunca acontece em memória.
func (r *LeadRepository) Fetch(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	var (
		where []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	where = append(where, "category = "+arg(filter.Board))

	if len(filter.Products) > 0 {
		where = append(where, "product = ANY("+arg(pq.Array(filter.Products))+")")
	}
	if filter.OwnerID != "" {
		where = append(where, "owner_id = "+arg(filter.OwnerID))
	}
	if filter.Search != "" {
		where = append(where, "name ILIKE "+arg("%"+filter.Search+"%"))
	}
	if filter.ScoreMin != nil {
		where = append(where, "score >= "+arg(*filter.ScoreMin))
	}
	if filter.ScoreMax != nil {
		where = append(where, "score <= "+arg(*filter.ScoreMax))
	}
	if len(filter.EventTypes) > 0 {
		where = append(where, "event_type = ANY("+arg(pq.Array(filter.EventTypes))+")")
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` +
		strings.Join(where, " AND ") + orderBy(filter.Sort)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar leads: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func orderBy(sort string) string {
	switch sort {
	case entity.SortCreatedAsc:
		return " ORDER BY created_at ASC"
	case entity.SortLastInteraction:
		return " ORDER BY last_interaction_at DESC NULLS LAST"
	case entity.SortNewest:
		return " ORDER BY created_at DESC"
	default: // score_desc
		return " ORDER BY score DESC NULLS LAST"
	}
}

// UpdateStage aplica o patch do movimento num único UPDATE: estágio novo
// mais apenas os campos que o coletor trouxe.
func (r *LeadRepository) UpdateStage(ctx context.Context, id string, update entity.StageUpdate) error {
	sets := []string{"updated_at = NOW()", "last_interaction_at = NOW()"}
	args := []any{}

	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	set("stage", update.Stage)
	if update.DealValue != nil {
		set("deal_value", *update.DealValue)
	}
	if update.Product != nil {
		set("product", *update.Product)
	}
	if update.PaymentType != nil {
		set("payment_type", *update.PaymentType)
	}
	if update.CashAmount != nil {
		set("cash_amount", *update.CashAmount)
	}
	if update.InstallmentAmount != nil {
		set("installment_amount", *update.InstallmentAmount)
	}
	if update.DownPaymentAmount != nil {
		set("down_payment_amount", *update.DownPaymentAmount)
	}
	if update.NextContact != nil {
		set("next_contact", *update.NextContact)
	}
	if update.NextFollowUp != nil {
		set("next_follow_up", *update.NextFollowUp)
	}
	if update.LossCategory != nil {
		set("loss_category", nullString(*update.LossCategory))
	}
	if update.LossText != nil {
		set("loss_text", *update.LossText)
	}

	args = append(args, id)
	query := "UPDATE leads SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args))

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("falha ao atualizar estágio: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// Upsert é o caminho do intake público: cria ou atualiza pelo email.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, phone, product, stage, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), leads.name),
			phone = COALESCE(NULLIF(EXCLUDED.phone, ''), leads.phone),
			updated_at = NOW()
		RETURNING id, stage, created_at, updated_at
	`

	category := entity.BoardMentoria
	if lead.Product == entity.ProductProduto {
		category = entity.BoardProduto
	}

	err := r.DB.QueryRowContext(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		nullString(lead.Phone),
		lead.Product,
		lead.Stage,
		category,
	).Scan(&lead.ID, &lead.Stage, &lead.CreatedAt, &lead.UpdatedAt)

	return err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead              entity.Lead
		email, phone      sql.NullString
		ownerID           sql.NullString
		dealValue, score  sql.NullFloat64
		paymentType       sql.NullString
		cash, inst, down  sql.NullFloat64
		nextContact       sql.NullTime
		nextFollowUp      sql.NullTime
		lossCat, lossText sql.NullString
		lastInteraction   sql.NullTime
		reminderSentAt    sql.NullTime
	)

	err := row.Scan(
		&lead.ID, &lead.Name, &email, &phone, &lead.Product, &lead.Stage,
		&ownerID, &dealValue, &paymentType, &cash, &inst, &down,
		&nextContact, &nextFollowUp, &lossCat, &lossText,
		&lead.InteresseMentoriaFast, &score, &lastInteraction,
		&reminderSentAt, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Email = email.String
	lead.Phone = phone.String
	lead.PaymentType = paymentType.String
	lead.LossCategory = lossCat.String
	lead.LossText = lossText.String
	if ownerID.Valid {
		lead.OwnerID = &ownerID.String
	}
	if dealValue.Valid {
		lead.DealValue = &dealValue.Float64
	}
	if score.Valid {
		lead.Score = &score.Float64
	}
	if cash.Valid {
		lead.CashAmount = &cash.Float64
	}
	if inst.Valid {
		lead.InstallmentAmount = &inst.Float64
	}
	if down.Valid {
		lead.DownPaymentAmount = &down.Float64
	}
	if nextContact.Valid {
		lead.NextContact = &nextContact.Time
	}
	if nextFollowUp.Valid {
		lead.NextFollowUp = &nextFollowUp.Time
	}
	if lastInteraction.Valid {
		lead.LastInteractionAt = &lastInteraction.Time
	}
	if reminderSentAt.Valid {
		lead.ReminderSentAt = &reminderSentAt.Time
	}

	return &lead, nil
}
