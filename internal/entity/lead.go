package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Estágios do pipeline. Os valores batem com o enum do banco.
const (
	StageFirstContact = "primeiro_contato"
	StageNextContact  = "proximo_contato"
	StageNegotiating  = "negociando"
	StageProposal     = "proposta"
	StageFollowUp     = "follow_up"
	StageWon          = "ganho"
	StageLost         = "perdido"
	StagePaid         = "pago" // nunca é alvo de drag, só de baixa financeira
)

// Produtos
const (
	ProductMentoriaFast = "mentoria_fast"
	ProductGBC          = "gbc"
	ProductBoard        = "board"
	ProductProduto      = "produto"
)

// Categorias de perda
const (
	LossPreco       = "preco"
	LossTiming      = "timing"
	LossConcorrente = "concorrente"
	LossSemResposta = "sem_resposta"
	LossOutro       = "outro"
)

// Formas de pagamento da proposta
const (
	PaymentCash             = "avista"
	PaymentInstallments     = "parcelado"
	PaymentDownInstallments = "entrada_parcelado"
)

var ErrLeadNotFound = errors.New("lead não encontrado")

type Lead struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Product               string     `json:"product"`
	Stage                 string     `json:"stage"`
	OwnerID               *string    `json:"owner_id,omitempty"`
	DealValue             *float64   `json:"deal_value,omitempty"`
	PaymentType           string     `json:"payment_type,omitempty"`
	CashAmount            *float64   `json:"cash_amount,omitempty"`
	InstallmentAmount     *float64   `json:"installment_amount,omitempty"`
	DownPaymentAmount     *float64   `json:"down_payment_amount,omitempty"`
	NextContact           *time.Time `json:"next_contact,omitempty"`
	NextFollowUp          *time.Time `json:"next_follow_up,omitempty"`
	LossCategory          string     `json:"loss_category,omitempty"`
	LossText              string     `json:"loss_text,omitempty"`
	InteresseMentoriaFast bool       `json:"interesse_mentoria_fast"`
	Score                 *float64   `json:"score,omitempty"`
	LastInteractionAt     *time.Time `json:"last_interaction_at,omitempty"`
	ReminderSentAt        *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	// Campos de intake (formulário público). Só preenchidos na captura.
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// NewLead cria um lead recém capturado, sempre em primeiro contato.
func NewLead(name, email, phone, product string) (*Lead, error) {
	if name == "" && email == "" {
		return nil, errors.New("lead precisa de nome ou email")
	}
	if product == "" {
		product = ProductGBC
	}
	lead := &Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Product:   product,
		Stage:     StageFirstContact,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := lead.Validate(); err != nil {
		return nil, err
	}
	return lead, nil
}

// A partir destes estágios o valor do negócio passa a ser obrigatório.
var stagesRequiringValue = map[string]bool{
	StageNegotiating: true,
	StageProposal:    true,
	StageFollowUp:    true,
	StageWon:         true,
	StagePaid:        true,
}

func StageRequiresDealValue(stage string) bool {
	return stagesRequiringValue[stage]
}

func (l *Lead) Validate() error {
	if !IsValidStage(l.Stage) {
		return errors.New("estágio inválido: " + l.Stage)
	}
	if StageRequiresDealValue(l.Stage) && l.DealValue != nil && *l.DealValue < 0 {
		return errors.New("valor do negócio não pode ser negativo")
	}
	if l.Stage != StageLost && (l.LossCategory != "" || l.LossText != "") {
		return errors.New("campos de perda só valem para lead perdido")
	}
	return nil
}

// Owned diz se o lead pertence ao ator informado.
func (l *Lead) Owned(actorID string) bool {
	return l.OwnerID != nil && *l.OwnerID == actorID
}

// StageUpdate é o patch atômico aplicado num commit de movimento:
// o estágio novo mais apenas os campos coletados para aquele destino.
type StageUpdate struct {
	Stage             string
	DealValue         *float64
	Product           *string
	PaymentType       *string
	CashAmount        *float64
	InstallmentAmount *float64
	DownPaymentAmount *float64
	NextContact       *time.Time
	NextFollowUp      *time.Time
	LossCategory      *string
	LossText          *string
}

// Apply devolve uma cópia do lead do jeito que a linha fica depois do
// UPDATE: estágio novo mais os campos presentes no patch.
func (u StageUpdate) Apply(l *Lead) *Lead {
	patched := *l
	patched.Stage = u.Stage
	if u.DealValue != nil {
		patched.DealValue = u.DealValue
	}
	if u.Product != nil {
		patched.Product = *u.Product
	}
	if u.PaymentType != nil {
		patched.PaymentType = *u.PaymentType
	}
	if u.CashAmount != nil {
		patched.CashAmount = u.CashAmount
	}
	if u.InstallmentAmount != nil {
		patched.InstallmentAmount = u.InstallmentAmount
	}
	if u.DownPaymentAmount != nil {
		patched.DownPaymentAmount = u.DownPaymentAmount
	}
	if u.NextContact != nil {
		patched.NextContact = u.NextContact
	}
	if u.NextFollowUp != nil {
		patched.NextFollowUp = u.NextFollowUp
	}
	if u.LossCategory != nil {
		patched.LossCategory = *u.LossCategory
	}
	if u.LossText != nil {
		patched.LossText = *u.LossText
	}
	return &patched
}

type LeadRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*Lead, error)
	Fetch(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	UpdateStage(ctx context.Context, id string, update StageUpdate) error
	Upsert(ctx context.Context, lead *Lead) error
}

// Ordenações suportadas pelo board.
const (
	SortScoreDesc       = "score_desc"
	SortCreatedAsc      = "created_asc"
	SortLastInteraction = "last_interaction_desc"
	SortNewest          = "newest"
)

// LeadFilter espelha as dimensões de filtro do board: categoria, produtos,
// dono, busca por nome, faixa de score e tipos de evento (board de produto).
type LeadFilter struct {
	Board      string
	Products   []string
	OwnerID    string // vazio = todos
	Search     string
	ScoreMin   *float64
	ScoreMax   *float64
	EventTypes []string
	Sort       string
}
