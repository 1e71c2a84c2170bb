package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gbcsales/pipeline-api/internal/entity"
	"github.com/gbcsales/pipeline-api/internal/infra/http/middleware"
	"github.com/gbcsales/pipeline-api/internal/usecase"
)

// MoveHandler monta um gate por request: o coletor é one-shot (o payload
// já veio no body) e as notices vão embutidas na resposta. O Pending
// Move vive só durante este request.
type MoveHandler struct {
	LeadRepo        entity.LeadRepositoryInterface
	UserRepo        entity.UserRepositoryInterface
	InteractionRepo entity.InteractionRepositoryInterface
	Lock            usecase.MoveLocker
	Producer        usecase.QueueProducerInterface
}

func NewMoveHandler(
	leadRepo entity.LeadRepositoryInterface,
	userRepo entity.UserRepositoryInterface,
	interactionRepo entity.InteractionRepositoryInterface,
	lock usecase.MoveLocker,
	producer usecase.QueueProducerInterface,
) *MoveHandler {
	return &MoveHandler{
		LeadRepo:        leadRepo,
		UserRepo:        userRepo,
		InteractionRepo: interactionRepo,
		Lock:            lock,
		Producer:        producer,
	}
}

type MoveRequest struct {
	Board     string                    `json:"board"`
	ToStage   string                    `json:"to_stage"`
	Cancelled bool                      `json:"cancelled,omitempty"`
	Payload   *usecase.CollectorPayload `json:"payload,omitempty"`
}

type MoveResponse struct {
	Moved   bool             `json:"moved"`
	Stage   string           `json:"stage,omitempty"`
	Reason  string           `json:"reason,omitempty"`
	Error   string           `json:"error,omitempty"`
	Notices []usecase.Notice `json:"notices,omitempty"`
}

// oneShotCollector resolve a fronteira assíncrona do gate com o payload
// que o cliente mandou. Cancelamento do modal vira ErrCollectCancelled.
type oneShotCollector struct {
	payload   *usecase.CollectorPayload
	cancelled bool
}

func (c oneShotCollector) Collect(init usecase.CollectorInit) (*usecase.CollectorPayload, error) {
	if c.cancelled {
		return nil, usecase.ErrCollectCancelled
	}
	if c.payload == nil {
		// Sem payload o confirm fica inerte: a validação do coletor
		// reprova e nada é commitado.
		return &usecase.CollectorPayload{}, nil
	}
	return c.payload, nil
}

// noticeRecorder acumula as notices do request para devolver no envelope.
type noticeRecorder struct {
	notices []usecase.Notice
}

func (n *noticeRecorder) Notify(notice usecase.Notice) {
	n.notices = append(n.notices, notice)
}

func (h *MoveHandler) Handle(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	recorder := &noticeRecorder{}
	uc := usecase.NewMoveLeadUseCase(
		h.LeadRepo,
		h.UserRepo,
		h.InteractionRepo,
		oneShotCollector{payload: req.Payload, cancelled: req.Cancelled},
		h.Lock,
		h.Producer,
		recorder,
	)

	output, err := uc.Execute(r.Context(), usecase.MoveLeadInput{
		LeadID:  leadID,
		Board:   req.Board,
		ToStage: req.ToStage,
		ActorID: middleware.ActorID(r),
	})

	recordMoveMetrics(req, output, err)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(statusForError(err))
		json.NewEncoder(w).Encode(MoveResponse{
			Error:   err.Error(),
			Notices: recorder.notices,
		})
		return
	}

	json.NewEncoder(w).Encode(MoveResponse{
		Moved:   output.Moved,
		Stage:   output.Stage,
		Reason:  output.Reason,
		Notices: recorder.notices,
	})
}

// HandleDefaults devolve os valores iniciais do coletor do destino
// (produto atual, valor sugerido pela heurística, horário padrão) para
// o front abrir o modal já preenchido. Trocar o produto dentro do
// coletor de negociação refaz a chamada com ?product= e o valor
// re-defaulta pela tabela.
func (h *MoveHandler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")
	toStage := r.URL.Query().Get("to")

	lead, err := h.LeadRepo.FindByID(r.Context(), leadID)
	if err != nil {
		http.Error(w, "Lead não encontrado", http.StatusNotFound)
		return
	}

	kind, gated := CollectorKindForStage(toStage)
	w.Header().Set("Content-Type", "application/json")
	if !gated {
		json.NewEncoder(w).Encode(map[string]any{"collector_required": false})
		return
	}

	init := usecase.BuildCollectorInit(kind, lead, toStage).
		WithProduct(r.URL.Query().Get("product"))

	json.NewEncoder(w).Encode(map[string]any{
		"collector_required": true,
		"init":               init,
	})
}

// CollectorKindForStage reexporta o mapeamento para quem está fora do usecase.
func CollectorKindForStage(stage string) (usecase.CollectorKind, bool) {
	return usecase.CollectorForStage(stage)
}

func recordMoveMetrics(req MoveRequest, output *usecase.MoveLeadOutput, err error) {
	outcome := "moved"
	switch {
	case err != nil:
		outcome = usecase.ErrorCode(err)
		if outcome == "" {
			outcome = "error"
		}
	case !output.Moved:
		outcome = output.Reason
	}
	middleware.RecordMove(req.Board, req.ToStage, outcome)

	if kind, gated := usecase.CollectorForStage(req.ToStage); gated {
		switch {
		case err == nil && output.Moved:
			middleware.RecordCollectorOutcome(string(kind), "confirmed")
		case err == nil && output.Reason == usecase.ReasonCancelled:
			middleware.RecordCollectorOutcome(string(kind), "cancelled")
		case err != nil && usecase.ErrorCode(err) == usecase.CodeValidation:
			middleware.RecordCollectorOutcome(string(kind), "invalid")
		}
	}
}

func statusForError(err error) int {
	switch usecase.ErrorCode(err) {
	case usecase.CodeUnauthorized:
		return http.StatusForbidden
	case usecase.CodeValidation:
		return http.StatusUnprocessableEntity
	case usecase.CodeLeadNotFound, usecase.CodeActorNotFound:
		return http.StatusNotFound
	case usecase.CodeMoveInFlight:
		return http.StatusConflict
	case usecase.CodeInvalidBoard:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
