package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gbcsales/pipeline-api/internal/entity"
	"github.com/gbcsales/pipeline-api/internal/infra/queue"
)

// MoveLeadInput é a intenção de movimento emitida pelo board:
// lead, board ativo, estágio de destino e o ator que soltou o card.
// O estágio de origem é sempre relido do banco, nunca confiado do cliente.
type MoveLeadInput struct {
	LeadID  string `json:"lead_id"`
	Board   string `json:"board"`
	ToStage string `json:"to_stage"`
	ActorID string `json:"-"`
}

type MoveLeadOutput struct {
	Moved  bool   `json:"moved"`
	Stage  string `json:"stage"`
	Reason string `json:"reason,omitempty"` // noop | unreachable | cancelled
}

// Motivos de não-movimento que não são erro.
const (
	ReasonNoop        = "noop"
	ReasonUnreachable = "unreachable"
	ReasonCancelled   = "cancelled"
)

// MoveLeadUseCase é o gate de transição de estágio. A ordem é fixa:
// autoriza, detecta no-op, checa alcançabilidade no board, trava o lead,
// aguarda o coletor do destino, valida, commita o patch único e só depois
// do ack do commit anexa a nota de auditoria e publica a invalidação.
type MoveLeadUseCase struct {
	LeadRepo        entity.LeadRepositoryInterface
	UserRepo        entity.UserRepositoryInterface
	InteractionRepo entity.InteractionRepositoryInterface
	Collector       CollectorGateway
	Lock            MoveLocker
	Producer        QueueProducerInterface
	Notifier        Notifier
	Location        *time.Location
}

func NewMoveLeadUseCase(
	leadRepo entity.LeadRepositoryInterface,
	userRepo entity.UserRepositoryInterface,
	interactionRepo entity.InteractionRepositoryInterface,
	collector CollectorGateway,
	lock MoveLocker,
	producer QueueProducerInterface,
	notifier Notifier,
) *MoveLeadUseCase {
	return &MoveLeadUseCase{
		LeadRepo:        leadRepo,
		UserRepo:        userRepo,
		InteractionRepo: interactionRepo,
		Collector:       collector,
		Lock:            lock,
		Producer:        producer,
		Notifier:        notifier,
		Location:        time.Local,
	}
}

func (uc *MoveLeadUseCase) Execute(ctx context.Context, input MoveLeadInput) (*MoveLeadOutput, error) {
	if !entity.IsValidBoard(input.Board) {
		return nil, &DomainError{Code: CodeInvalidBoard, Message: "board inválido: " + input.Board}
	}

	// Ator relido no momento do drop. Papel ou posse podem ter mudado
	// desde a renderização do board.
	actor, err := uc.UserRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, &DomainError{Code: CodeActorNotFound, Message: "ator não encontrado: " + err.Error()}
	}

	lead, err := uc.LeadRepo.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead não encontrado: " + err.Error()}
	}

	if !actor.CanWriteLead(lead) {
		uc.notify("Sem permissão", "Você não tem permissão para mover este lead.", "error")
		return nil, &DomainError{Code: CodeUnauthorized, Message: "ator sem permissão de escrita no lead"}
	}

	// Soltar o card na própria coluna não faz nada.
	if input.ToStage == lead.Stage {
		return &MoveLeadOutput{Moved: false, Stage: lead.Stage, Reason: ReasonNoop}, nil
	}

	// Destino fora do board ativo não é um alvo legal. Rejeita em
	// silêncio, sem toast e sem escrita.
	if !entity.StageReachable(input.Board, input.ToStage) {
		return &MoveLeadOutput{Moved: false, Stage: lead.Stage, Reason: ReasonUnreachable}, nil
	}

	// Trava consultiva: um commit em voo por lead.
	release, err := uc.Lock.Acquire(ctx, lead.ID)
	if err != nil {
		uc.notify("Movimento em andamento", "Aguarde o movimento anterior deste lead terminar.", "error")
		return nil, &DomainError{Code: CodeMoveInFlight, Message: "já existe um movimento em voo para este lead"}
	}
	defer release()

	var payload *CollectorPayload
	kind, gated := CollectorForStage(input.ToStage)
	if gated {
		payload, err = uc.Collector.Collect(BuildCollectorInit(kind, lead, input.ToStage))
		if errors.Is(err, ErrCollectCancelled) {
			// Movimento pendente descartado, zero escritas remotas.
			return &MoveLeadOutput{Moved: false, Stage: lead.Stage, Reason: ReasonCancelled}, nil
		}
		if err != nil {
			return nil, &TechnicalError{Code: CodeCollectorFailed, Message: "coletor falhou: " + err.Error()}
		}
		if vErrs := ValidatePayload(kind, payload); len(vErrs) > 0 {
			return nil, &DomainError{Code: CodeValidation, Message: joinValidationErrors(vErrs)}
		}
	}

	update, err := uc.buildStageUpdate(lead, kind, gated, payload, input.ToStage)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	// Última barreira antes do UPDATE: a linha resultante tem que
	// respeitar as invariantes do lead.
	if err := update.Apply(lead).Validate(); err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	// Commit único: estágio + campos coletados. Nada foi mutado
	// localmente antes disso, então falha aqui deixa o board como estava.
	if err := uc.LeadRepo.UpdateStage(ctx, lead.ID, update); err != nil {
		uc.notify("Falha ao mover o lead", err.Error(), "error")
		return nil, &TechnicalError{Code: CodeCommitFailed, Message: "falha no commit do estágio: " + err.Error()}
	}

	// A nota de auditoria só sai depois do ack do commit. Falha aqui é
	// degradação aceitável: o estágio é a verdade, a narrativa se perde.
	uc.appendAuditNote(ctx, lead, actor, kind, gated, payload, input.ToStage)

	uc.publishChange(ctx, lead.ID, input.Board, input.ToStage, actor.ID)

	uc.notify("Lead movido", fmt.Sprintf("%s agora está em %s.", lead.Name, input.ToStage), "success")
	return &MoveLeadOutput{Moved: true, Stage: input.ToStage}, nil
}

func (uc *MoveLeadUseCase) buildStageUpdate(lead *entity.Lead, kind CollectorKind, gated bool, p *CollectorPayload, toStage string) (entity.StageUpdate, error) {
	update := entity.StageUpdate{Stage: toStage}

	// Campos de perda só valem para lead perdido: reviver um perdido
	// limpa categoria e motivo.
	if toStage != entity.StageLost && (lead.LossCategory != "" || lead.LossText != "") {
		empty := ""
		update.LossCategory = &empty
		update.LossText = &empty
	}

	if !gated {
		return update, nil
	}

	switch kind {
	case CollectorNextContact:
		ts, err := CombineDateTime(p.Date, p.Time, uc.Location)
		if err != nil {
			return update, err
		}
		update.NextContact = &ts

	case CollectorFollowUp:
		hhmm := p.Time
		if hhmm == "" {
			hhmm = "09:00"
		}
		ts, err := CombineDateTime(p.Date, hhmm, uc.Location)
		if err != nil {
			return update, err
		}
		update.NextFollowUp = &ts

	case CollectorNegotiation:
		update.Product = &p.Product
		update.DealValue = p.DealValue

	case CollectorProposal:
		update.PaymentType = &p.PaymentType
		switch p.PaymentType {
		case entity.PaymentCash:
			update.CashAmount = p.CashAmount
		case entity.PaymentInstallments:
			update.InstallmentAmount = p.InstallmentAmount
		case entity.PaymentDownInstallments:
			update.DownPaymentAmount = p.DownPaymentAmount
			update.InstallmentAmount = p.InstallmentAmount
		}

	case CollectorWin:
		update.DealValue = p.DealValue

	case CollectorLoss:
		update.LossCategory = &p.LossCategory
		update.LossText = &p.LossText
	}

	return update, nil
}

func (uc *MoveLeadUseCase) appendAuditNote(ctx context.Context, lead *entity.Lead, actor *entity.User, kind CollectorKind, gated bool, p *CollectorPayload, toStage string) {
	text := auditText(lead, kind, gated, p, toStage)
	interaction, err := entity.NewInteraction(lead.ID, actor.ID, text)
	if err != nil {
		log.Printf("⚠️ Nota de auditoria inválida para lead %s: %v", lead.ID, err)
		return
	}
	if err := uc.InteractionRepo.Append(ctx, interaction); err != nil {
		log.Printf("⚠️ Estágio commitado mas a nota de auditoria falhou (lead %s): %v", lead.ID, err)
	}
}

func (uc *MoveLeadUseCase) publishChange(ctx context.Context, leadID, board, stage, actorID string) {
	payload := queue.BoardChangedPayload{
		LeadID:  leadID,
		Board:   board,
		Stage:   stage,
		ActorID: actorID,
		Action:  "stage_moved",
	}
	if err := uc.Producer.PublishBoardChanged(ctx, payload); err != nil {
		// Invalidação é at-least-once; quem está no board refaz o fetch
		// de qualquer jeito na próxima interação.
		log.Printf("⚠️ Falha ao publicar board.changed para lead %s: %v", leadID, err)
	}
}

func (uc *MoveLeadUseCase) notify(title, description, severity string) {
	if uc.Notifier != nil {
		uc.Notifier.Notify(Notice{Title: title, Description: description, Severity: severity})
	}
}

func auditText(lead *entity.Lead, kind CollectorKind, gated bool, p *CollectorPayload, toStage string) string {
	if !gated {
		return fmt.Sprintf("Lead movido de %s para %s", lead.Stage, toStage)
	}

	switch kind {
	case CollectorNextContact:
		return fmt.Sprintf("Próximo contato agendado para %s %s", p.Date, orMidnight(p.Time))
	case CollectorFollowUp:
		hhmm := p.Time
		if hhmm == "" {
			hhmm = "09:00"
		}
		return fmt.Sprintf("Follow-up agendado para %s %s", p.Date, hhmm)
	case CollectorNegotiation:
		return fmt.Sprintf("Em negociação: produto %s, valor %s", p.Product, formatValue(p.DealValue))
	case CollectorProposal:
		parts := []string{"Proposta enviada (" + p.PaymentType + ")"}
		if p.CashAmount != nil {
			parts = append(parts, "à vista "+formatValue(p.CashAmount))
		}
		if p.DownPaymentAmount != nil {
			parts = append(parts, "entrada "+formatValue(p.DownPaymentAmount))
		}
		if p.InstallmentAmount != nil {
			parts = append(parts, "parcela "+formatValue(p.InstallmentAmount))
		}
		return strings.Join(parts, ", ")
	case CollectorWin:
		text := "Negócio ganho no valor de " + formatValue(p.DealValue)
		if p.Note != "" {
			text += ". Obs: " + p.Note
		}
		return text
	case CollectorLoss:
		text := "Lead perdido"
		if p.LossCategory != "" {
			text += " (categoria: " + p.LossCategory + ")"
		}
		if p.LossText != "" {
			text += ". Motivo: " + p.LossText
		}
		return text
	default:
		return fmt.Sprintf("Lead movido de %s para %s", lead.Stage, toStage)
	}
}

func formatValue(v *float64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func orMidnight(hhmm string) string {
	if hhmm == "" {
		return "00:00"
	}
	return hhmm
}

func joinValidationErrors(errs []ValidationError) string {
	msg := "validation failed: "
	for _, e := range errs {
		msg += e.Field + " (" + e.Message + "), "
	}
	return strings.TrimSuffix(msg, ", ")
}
