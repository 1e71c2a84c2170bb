package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/gbcsales/pipeline-api/internal/entity"
)

// CollectorKind identifica o coletor que guarda cada estágio de destino.
type CollectorKind string

const (
	CollectorNextContact CollectorKind = "next_contact"
	CollectorNegotiation CollectorKind = "negotiation"
	CollectorProposal    CollectorKind = "proposal"
	CollectorFollowUp    CollectorKind = "follow_up"
	CollectorWin         CollectorKind = "win"
	CollectorLoss        CollectorKind = "loss"
)

// ErrCollectCancelled: o ator fechou o coletor sem confirmar.
// O movimento pendente é descartado sem nenhuma escrita remota.
var ErrCollectCancelled = errors.New("coleta cancelada pelo ator")

// CollectorForStage mapeia destino -> coletor. Estágio sem coletor
// (ex.: primeiro_contato) commita direto, sem payload extra.
func CollectorForStage(stage string) (CollectorKind, bool) {
	switch stage {
	case entity.StageNextContact:
		return CollectorNextContact, true
	case entity.StageNegotiating:
		return CollectorNegotiation, true
	case entity.StageProposal:
		return CollectorProposal, true
	case entity.StageFollowUp:
		return CollectorFollowUp, true
	case entity.StageWon:
		return CollectorWin, true
	case entity.StageLost:
		return CollectorLoss, true
	default:
		return "", false
	}
}

// CollectorInit são os valores iniciais mostrados no coletor
// (produto atual, valor sugerido, horário padrão).
type CollectorInit struct {
	Kind      CollectorKind `json:"kind"`
	LeadID    string        `json:"lead_id"`
	LeadName  string        `json:"lead_name"`
	FromStage string        `json:"from_stage"`
	ToStage   string        `json:"to_stage"`
	Product   string        `json:"product,omitempty"`
	DealValue *float64      `json:"deal_value,omitempty"`
	Time      string        `json:"time,omitempty"`
}

// CollectorPayload é o resultado confirmado de um coletor. Um único tipo
// serve os seis coletores; Validate aplica só as regras do kind pedido.
type CollectorPayload struct {
	Date              string   `json:"date,omitempty"` // YYYY-MM-DD
	Time              string   `json:"time,omitempty"` // HH:MM
	Product           string   `json:"product,omitempty"`
	DealValue         *float64 `json:"deal_value,omitempty"`
	PaymentType       string   `json:"payment_type,omitempty"`
	CashAmount        *float64 `json:"cash_amount,omitempty"`
	InstallmentAmount *float64 `json:"installment_amount,omitempty"`
	DownPaymentAmount *float64 `json:"down_payment_amount,omitempty"`
	Note              string   `json:"note,omitempty"`
	LossCategory      string   `json:"loss_category,omitempty"`
	LossText          string   `json:"loss_text"`
}

// CollectorGateway é a fronteira assíncrona que o gate aguarda: no HTTP é
// one-shot (payload já veio no request), nos testes é um mock que confirma,
// cancela ou registra a ordem das chamadas.
type CollectorGateway interface {
	Collect(init CollectorInit) (*CollectorPayload, error)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validLossCategories = map[string]bool{
	entity.LossPreco:       true,
	entity.LossTiming:      true,
	entity.LossConcorrente: true,
	entity.LossSemResposta: true,
	entity.LossOutro:       true,
}

var validProducts = map[string]bool{
	entity.ProductMentoriaFast: true,
	entity.ProductGBC:          true,
	entity.ProductBoard:        true,
	entity.ProductProduto:      true,
}

// ValidatePayload aplica as regras de obrigatoriedade do coletor.
// Lista vazia = confirmar liberado.
func ValidatePayload(kind CollectorKind, p *CollectorPayload) []ValidationError {
	var errs []ValidationError

	switch kind {
	case CollectorNextContact, CollectorFollowUp:
		if p.Date == "" {
			errs = append(errs, ValidationError{"date", "is required"})
		} else if _, err := time.Parse("2006-01-02", p.Date); err != nil {
			errs = append(errs, ValidationError{"date", "must be a valid date (YYYY-MM-DD)"})
		}
		if p.Time != "" {
			if _, err := time.Parse("15:04", p.Time); err != nil {
				errs = append(errs, ValidationError{"time", "must be HH:MM"})
			}
		}

	case CollectorNegotiation:
		if p.Product == "" {
			errs = append(errs, ValidationError{"product", "is required"})
		} else if !validProducts[p.Product] {
			errs = append(errs, ValidationError{"product", "is invalid"})
		}
		if p.DealValue == nil || *p.DealValue <= 0 {
			errs = append(errs, ValidationError{"deal_value", "must be greater than zero"})
		}

	case CollectorProposal:
		switch p.PaymentType {
		case entity.PaymentCash:
			if p.CashAmount == nil || *p.CashAmount <= 0 {
				errs = append(errs, ValidationError{"cash_amount", "must be greater than zero"})
			}
		case entity.PaymentInstallments:
			if p.InstallmentAmount == nil || *p.InstallmentAmount <= 0 {
				errs = append(errs, ValidationError{"installment_amount", "must be greater than zero"})
			}
		case entity.PaymentDownInstallments:
			down := p.DownPaymentAmount != nil && *p.DownPaymentAmount > 0
			inst := p.InstallmentAmount != nil && *p.InstallmentAmount > 0
			if !down && !inst {
				errs = append(errs, ValidationError{"down_payment_amount", "at least one amount must be greater than zero"})
			}
		case "":
			errs = append(errs, ValidationError{"payment_type", "is required"})
		default:
			errs = append(errs, ValidationError{"payment_type", "must be avista, parcelado or entrada_parcelado"})
		}

	case CollectorWin:
		if p.DealValue == nil || *p.DealValue <= 0 {
			errs = append(errs, ValidationError{"deal_value", "must be greater than zero"})
		}

	case CollectorLoss:
		if p.LossCategory == "" && p.LossText == "" {
			errs = append(errs, ValidationError{"loss_text", "reason text or category is required"})
		}
		if p.LossCategory != "" && !validLossCategories[p.LossCategory] {
			errs = append(errs, ValidationError{"loss_category", "is invalid"})
		}
	}

	return errs
}

// CombineDateTime leva a data à meia-noite local e avança pelo hh:mm
// selecionado. Hora vazia fica à meia-noite.
func CombineDateTime(date, hhmm string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("data inválida %q: %w", date, err)
	}
	if hhmm == "" {
		return day, nil
	}
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("hora inválida %q: %w", hhmm, err)
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), nil
}

// WithProduct troca o produto do init de negociação e re-defaulta o
// valor sugerido pela tabela do comercial. Fora do coletor de negociação,
// ou com o mesmo produto, não muda nada.
func (init CollectorInit) WithProduct(product string) CollectorInit {
	if init.Kind != CollectorNegotiation || product == "" || product == init.Product {
		return init
	}
	v := entity.NegotiationDefaultValue(product)
	init.Product = product
	init.DealValue = &v
	return init
}

// BuildCollectorInit monta os valores iniciais do coletor para o lead:
// ganho e negociação vêm com o valor sugerido (heurística por produto),
// follow-up vem com 09:00.
func BuildCollectorInit(kind CollectorKind, lead *entity.Lead, toStage string) CollectorInit {
	init := CollectorInit{
		Kind:      kind,
		LeadID:    lead.ID,
		LeadName:  lead.Name,
		FromStage: lead.Stage,
		ToStage:   toStage,
	}
	switch kind {
	case CollectorNegotiation:
		init.Product = lead.Product
		init.DealValue = entity.DefaultDealValue(lead)
	case CollectorWin:
		init.DealValue = entity.DefaultDealValue(lead)
	case CollectorFollowUp:
		init.Time = "09:00"
	}
	return init
}
