package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gbcsales/pipeline-api/internal/entity"
	"github.com/gbcsales/pipeline-api/internal/infra/queue"
)

func strPtr(s string) *string { return &s }

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Fetch(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStage(ctx context.Context, id string, update entity.StageUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByToken(ctx context.Context, token string) (*entity.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// MockInteractionRepository
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Append(ctx context.Context, interaction *entity.Interaction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

// MockCollectorGateway
type MockCollectorGateway struct {
	mock.Mock
}

func (m *MockCollectorGateway) Collect(init CollectorInit) (*CollectorPayload, error) {
	args := m.Called(init)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CollectorPayload), args.Error(1)
}

// MockMoveLocker
type MockMoveLocker struct {
	mock.Mock
}

func (m *MockMoveLocker) Acquire(ctx context.Context, leadID string) (func(), error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishBoardChanged(ctx context.Context, payload queue.BoardChangedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockNotifier guarda as notices emitidas para inspeção.
type MockNotifier struct {
	notices []Notice
}

func (m *MockNotifier) Notify(notice Notice) {
	m.notices = append(m.notices, notice)
}

func (m *MockNotifier) severities() []string {
	var out []string
	for _, n := range m.notices {
		out = append(out, n.Severity)
	}
	return out
}

type moveFixture struct {
	leadRepo        *MockLeadRepository
	userRepo        *MockUserRepository
	interactionRepo *MockInteractionRepository
	collector       *MockCollectorGateway
	locker          *MockMoveLocker
	producer        *MockQueueProducer
	notifier        *MockNotifier
	uc              *MoveLeadUseCase
}

func newMoveFixture() *moveFixture {
	f := &moveFixture{
		leadRepo:        new(MockLeadRepository),
		userRepo:        new(MockUserRepository),
		interactionRepo: new(MockInteractionRepository),
		collector:       new(MockCollectorGateway),
		locker:          new(MockMoveLocker),
		producer:        new(MockQueueProducer),
		notifier:        &MockNotifier{},
	}
	f.uc = NewMoveLeadUseCase(
		f.leadRepo, f.userRepo, f.interactionRepo,
		f.collector, f.locker, f.producer, f.notifier,
	)
	f.uc.Location = time.UTC
	return f
}

func (f *moveFixture) withActor(id, role string) {
	f.userRepo.On("FindByID", mock.Anything, id).Return(&entity.User{ID: id, Name: "Ana", Role: role}, nil)
}

func (f *moveFixture) withLead(lead *entity.Lead) {
	f.leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
}

func (f *moveFixture) withLock(leadID string) {
	f.locker.On("Acquire", mock.Anything, leadID).Return(func() {}, nil)
}

func gbcLead() *entity.Lead {
	return &entity.Lead{
		ID:      "lead-1",
		Name:    "Carlos Souza",
		Product: entity.ProductGBC,
		Stage:   entity.StageFirstContact,
		OwnerID: strPtr("sdr-1"),
	}
}

// ============ TESTES ============

// Cenário A: sdr dono arrasta lead gbc sem valor para negociando.
// Coletor abre pré-preenchido com 120000, confirma 150000 e o commit
// leva estágio+produto+valor, com nota contendo o valor.
func TestMoveToNegotiatingCommitsCollectedPayload(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()

	f.withActor("sdr-1", entity.RoleSDR)
	f.withLead(lead)
	f.withLock("lead-1")

	f.collector.On("Collect", mock.MatchedBy(func(init CollectorInit) bool {
		return init.Kind == CollectorNegotiation &&
			init.Product == entity.ProductGBC &&
			init.DealValue != nil && *init.DealValue == 120000
	})).Return(&CollectorPayload{
		Product:   entity.ProductGBC,
		DealValue: floatPtr(150000),
	}, nil)

	f.leadRepo.On("UpdateStage", mock.Anything, "lead-1", mock.MatchedBy(func(u entity.StageUpdate) bool {
		return u.Stage == entity.StageNegotiating &&
			u.Product != nil && *u.Product == entity.ProductGBC &&
			u.DealValue != nil && *u.DealValue == 150000
	})).Return(nil)

	f.interactionRepo.On("Append", mock.Anything, mock.MatchedBy(func(i *entity.Interaction) bool {
		return i.LeadID == "lead-1" && strings.Contains(i.Text, "150000")
	})).Return(nil)

	f.producer.On("PublishBoardChanged", mock.Anything, mock.Anything).Return(nil)

	output, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageNegotiating, ActorID: "sdr-1",
	})

	assert.NoError(t, err)
	assert.True(t, output.Moved)
	assert.Equal(t, entity.StageNegotiating, output.Stage)
	assert.Contains(t, f.notifier.severities(), "success")

	f.leadRepo.AssertCalled(t, "UpdateStage", mock.Anything, "lead-1", mock.Anything)
	f.interactionRepo.AssertCalled(t, "Append", mock.Anything, mock.Anything)
	f.producer.AssertCalled(t, "PublishBoardChanged", mock.Anything, mock.Anything)
}

// Cenário B: viewer nunca move. Nenhum coletor abre, nenhuma escrita sai.
func TestMoveDeniedForViewer(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()

	f.withActor("viewer-1", entity.RoleViewer)
	f.withLead(lead)

	output, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageNegotiating, ActorID: "viewer-1",
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, IsDomainError(err))
	assert.Equal(t, CodeUnauthorized, ErrorCode(err))
	assert.Contains(t, f.notifier.severities(), "error")

	f.collector.AssertNotCalled(t, "Collect", mock.Anything)
	f.leadRepo.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
	f.interactionRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.producer.AssertNotCalled(t, "PublishBoardChanged", mock.Anything, mock.Anything)
}

// Closer que não é dono também é barrado na hora do drop.
func TestMoveDeniedForNonOwnerCloser(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead() // dono: sdr-1

	f.withActor("closer-9", entity.RoleCloser)
	f.withLead(lead)

	_, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageWon, ActorID: "closer-9",
	})

	assert.Equal(t, CodeUnauthorized, ErrorCode(err))
	f.leadRepo.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
}

// P2: soltar na própria coluna não abre coletor nem commita.
func TestMoveToSameStageIsNoop(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()

	f.withActor("sdr-1", entity.RoleSDR)
	f.withLead(lead)

	output, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageFirstContact, ActorID: "sdr-1",
	})

	assert.NoError(t, err)
	assert.False(t, output.Moved)
	assert.Equal(t, ReasonNoop, output.Reason)

	f.collector.AssertNotCalled(t, "Collect", mock.Anything)
	f.locker.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything)
	f.leadRepo.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
}

// P3: destino fora do board ativo é rejeitado em silêncio, sem escrita.
func TestMoveToUnreachableStageIsSilentlyRejected(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()
	lead.Product = entity.ProductProduto

	f.withActor("sdr-1", entity.RoleSDR)
	f.withLead(lead)

	// negociando não existe no board de produto
	output, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardProduto,
		ToStage: entity.StageNegotiating, ActorID: "sdr-1",
	})

	assert.NoError(t, err)
	assert.False(t, output.Moved)
	assert.Equal(t, ReasonUnreachable, output.Reason)
	assert.Empty(t, f.notifier.notices)

	f.collector.AssertNotCalled(t, "Collect", mock.Anything)
	f.leadRepo.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
}

// P4: todo destino com coletor passa pelo coletor antes de qualquer
// commit, e payload vazio nunca chega no banco.
func TestGatedStagesAlwaysRunCollector(t *testing.T) {
	gatedStages := []string{
		entity.StageNextContact, entity.StageNegotiating, entity.StageProposal,
		entity.StageFollowUp, entity.StageWon, entity.StageLost,
	}

	for _, stage := range gatedStages {
		t.Run(stage, func(t *testing.T) {
			f := newMoveFixture()
			lead := gbcLead()
			lead.Stage = entity.StagePaid // nunca colide com o destino

			f.withActor("admin-1", entity.RoleAdmin)
			f.withLead(lead)
			f.withLock("lead-1")

			// Coletor devolve payload vazio: validação reprova e nada commita.
			f.collector.On("Collect", mock.Anything).Return(&CollectorPayload{}, nil)

			_, err := f.uc.Execute(context.Background(), MoveLeadInput{
				LeadID: "lead-1", Board: entity.BoardMentoria,
				ToStage: stage, ActorID: "admin-1",
			})

			assert.Error(t, err)
			assert.Equal(t, CodeValidation, ErrorCode(err))
			f.collector.AssertCalled(t, "Collect", mock.Anything)
			f.leadRepo.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// P6: cancelar o coletor descarta o movimento pendente sem escrita alguma.
func TestCancelledCollectorIsNoop(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()

	f.withActor("sdr-1", entity.RoleSDR)
	f.withLead(lead)
	f.withLock("lead-1")

	f.collector.On("Collect", mock.Anything).Return(nil, ErrCollectCancelled)

	output, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageWon, ActorID: "sdr-1",
	})

	assert.NoError(t, err)
	assert.False(t, output.Moved)
	assert.Equal(t, ReasonCancelled, output.Reason)

	f.leadRepo.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
	f.interactionRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.producer.AssertNotCalled(t, "PublishBoardChanged", mock.Anything, mock.Anything)
}

// P7: a nota de auditoria só é emitida depois do ack do commit.
func TestAuditNoteIssuedAfterCommitAck(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()

	f.withActor("admin-1", entity.RoleAdmin)
	f.withLead(lead)
	f.withLock("lead-1")

	var order []string

	f.collector.On("Collect", mock.Anything).Return(&CollectorPayload{
		DealValue: floatPtr(18000), Note: "pagou no pix",
	}, nil)

	f.leadRepo.On("UpdateStage", mock.Anything, "lead-1", mock.Anything).
		Run(func(args mock.Arguments) { order = append(order, "commit") }).
		Return(nil)

	f.interactionRepo.On("Append", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { order = append(order, "audit") }).
		Return(nil)

	f.producer.On("PublishBoardChanged", mock.Anything, mock.Anything).Return(nil)

	output, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageWon, ActorID: "admin-1",
	})

	assert.NoError(t, err)
	assert.True(t, output.Moved)
	assert.Equal(t, []string{"commit", "audit"}, order)
}

// Cenário C: perda só com categoria e texto vazio é aceita e o commit
// grava loss_text vazio explicitamente.
func TestMoveToLostWithCategoryOnly(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()
	lead.Stage = entity.StageProposal

	f.withActor("sdr-1", entity.RoleSDR)
	f.withLead(lead)
	f.withLock("lead-1")

	f.collector.On("Collect", mock.Anything).Return(&CollectorPayload{
		LossCategory: entity.LossPreco, LossText: "",
	}, nil)

	f.leadRepo.On("UpdateStage", mock.Anything, "lead-1", mock.MatchedBy(func(u entity.StageUpdate) bool {
		return u.Stage == entity.StageLost &&
			u.LossCategory != nil && *u.LossCategory == entity.LossPreco &&
			u.LossText != nil && *u.LossText == ""
	})).Return(nil)

	f.interactionRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.producer.On("PublishBoardChanged", mock.Anything, mock.Anything).Return(nil)

	output, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageLost, ActorID: "sdr-1",
	})

	assert.NoError(t, err)
	assert.True(t, output.Moved)
}

// Cenário D: no board de produto o coletor de perda guarda o movimento
// exatamente igual, mesmo sem negociando/proposta/follow_up por lá.
func TestLossCollectorGatesOnProductBoardToo(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()
	lead.Product = entity.ProductProduto

	f.withActor("sdr-1", entity.RoleSDR)
	f.withLead(lead)
	f.withLock("lead-1")

	f.collector.On("Collect", mock.MatchedBy(func(init CollectorInit) bool {
		return init.Kind == CollectorLoss
	})).Return(&CollectorPayload{LossCategory: entity.LossPreco}, nil)

	f.leadRepo.On("UpdateStage", mock.Anything, "lead-1", mock.MatchedBy(func(u entity.StageUpdate) bool {
		return u.Stage == entity.StageLost
	})).Return(nil)
	f.interactionRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.producer.On("PublishBoardChanged", mock.Anything, mock.Anything).Return(nil)

	output, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardProduto,
		ToStage: entity.StageLost, ActorID: "sdr-1",
	})

	assert.NoError(t, err)
	assert.True(t, output.Moved)
	f.collector.AssertCalled(t, "Collect", mock.Anything)
}

// Reviver um lead perdido limpa categoria e motivo de perda no mesmo
// commit: os campos de perda só valem para lead perdido.
func TestMoveOutOfLostClearsLossFields(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()
	lead.Stage = entity.StageLost
	lead.LossCategory = entity.LossPreco
	lead.LossText = "caro demais"

	f.withActor("sdr-1", entity.RoleSDR)
	f.withLead(lead)
	f.withLock("lead-1")

	f.leadRepo.On("UpdateStage", mock.Anything, "lead-1", mock.MatchedBy(func(u entity.StageUpdate) bool {
		return u.Stage == entity.StageFirstContact &&
			u.LossCategory != nil && *u.LossCategory == "" &&
			u.LossText != nil && *u.LossText == ""
	})).Return(nil)
	f.interactionRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.producer.On("PublishBoardChanged", mock.Anything, mock.Anything).Return(nil)

	output, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageFirstContact, ActorID: "sdr-1",
	})

	assert.NoError(t, err)
	assert.True(t, output.Moved)
	f.leadRepo.AssertExpectations(t)
}

// Falha no commit remoto: erro técnico, board fica como estava,
// nenhuma nota e nenhum evento saem.
func TestCommitFailureLeavesBoardUntouched(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()

	f.withActor("sdr-1", entity.RoleSDR)
	f.withLead(lead)
	f.withLock("lead-1")

	f.collector.On("Collect", mock.Anything).Return(&CollectorPayload{
		Product: entity.ProductGBC, DealValue: floatPtr(90000),
	}, nil)
	f.leadRepo.On("UpdateStage", mock.Anything, "lead-1", mock.Anything).
		Return(errors.New("connection reset"))

	output, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageNegotiating, ActorID: "sdr-1",
	})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, IsTechnicalError(err))
	assert.Equal(t, CodeCommitFailed, ErrorCode(err))
	assert.Contains(t, f.notifier.severities(), "error")

	f.interactionRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.producer.AssertNotCalled(t, "PublishBoardChanged", mock.Anything, mock.Anything)
}

// Falha só na nota de auditoria é degradação aceitável: o movimento
// vale, o evento sai e o ator vê sucesso.
func TestAuditAppendFailureIsNonFatal(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()

	f.withActor("sdr-1", entity.RoleSDR)
	f.withLead(lead)
	f.withLock("lead-1")

	f.collector.On("Collect", mock.Anything).Return(&CollectorPayload{Date: "2026-09-10", Time: "10:00"}, nil)
	f.leadRepo.On("UpdateStage", mock.Anything, "lead-1", mock.Anything).Return(nil)
	f.interactionRepo.On("Append", mock.Anything, mock.Anything).Return(errors.New("interactions table locked"))
	f.producer.On("PublishBoardChanged", mock.Anything, mock.Anything).Return(nil)

	output, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageNextContact, ActorID: "sdr-1",
	})

	assert.NoError(t, err)
	assert.True(t, output.Moved)
	assert.Contains(t, f.notifier.severities(), "success")
	f.producer.AssertCalled(t, "PublishBoardChanged", mock.Anything, mock.Anything)
}

// Segundo movimento no mesmo lead com commit em voo é barrado pela trava.
func TestMoveRejectedWhileCommitInFlight(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()

	f.withActor("sdr-1", entity.RoleSDR)
	f.withLead(lead)
	f.locker.On("Acquire", mock.Anything, "lead-1").Return(nil, errors.New("já travado"))

	_, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageWon, ActorID: "sdr-1",
	})

	assert.Equal(t, CodeMoveInFlight, ErrorCode(err))
	f.collector.AssertNotCalled(t, "Collect", mock.Anything)
	f.leadRepo.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
}

// Destino sem coletor (primeiro_contato) commita direto, sem payload.
func TestUngatedStageCommitsImmediately(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()
	lead.Stage = entity.StageNextContact

	f.withActor("admin-1", entity.RoleAdmin)
	f.withLead(lead)
	f.withLock("lead-1")

	f.leadRepo.On("UpdateStage", mock.Anything, "lead-1", mock.MatchedBy(func(u entity.StageUpdate) bool {
		return u.Stage == entity.StageFirstContact && u.DealValue == nil && u.NextContact == nil
	})).Return(nil)
	f.interactionRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.producer.On("PublishBoardChanged", mock.Anything, mock.Anything).Return(nil)

	output, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageFirstContact, ActorID: "admin-1",
	})

	assert.NoError(t, err)
	assert.True(t, output.Moved)
	f.collector.AssertNotCalled(t, "Collect", mock.Anything)
}

// Data+hora do coletor viram timestamp absoluto: meia-noite local
// avançada pelo hh:mm.
func TestNextContactTimestampCombination(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()

	f.withActor("sdr-1", entity.RoleSDR)
	f.withLead(lead)
	f.withLock("lead-1")

	f.collector.On("Collect", mock.Anything).Return(&CollectorPayload{Date: "2026-09-10", Time: "14:30"}, nil)

	expected := time.Date(2026, 9, 10, 14, 30, 0, 0, time.UTC)
	f.leadRepo.On("UpdateStage", mock.Anything, "lead-1", mock.MatchedBy(func(u entity.StageUpdate) bool {
		return u.NextContact != nil && u.NextContact.Equal(expected)
	})).Return(nil)
	f.interactionRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.producer.On("PublishBoardChanged", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageNextContact, ActorID: "sdr-1",
	})

	assert.NoError(t, err)
}

// Follow-up sem hora escolhida cai no padrão 09:00.
func TestFollowUpDefaultsToNineAM(t *testing.T) {
	f := newMoveFixture()
	lead := gbcLead()
	lead.DealValue = floatPtr(90000)

	f.withActor("sdr-1", entity.RoleSDR)
	f.withLead(lead)
	f.withLock("lead-1")

	f.collector.On("Collect", mock.Anything).Return(&CollectorPayload{Date: "2026-09-10"}, nil)

	expected := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	f.leadRepo.On("UpdateStage", mock.Anything, "lead-1", mock.MatchedBy(func(u entity.StageUpdate) bool {
		return u.NextFollowUp != nil && u.NextFollowUp.Equal(expected)
	})).Return(nil)
	f.interactionRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.producer.On("PublishBoardChanged", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.Execute(context.Background(), MoveLeadInput{
		LeadID: "lead-1", Board: entity.BoardMentoria,
		ToStage: entity.StageFollowUp, ActorID: "sdr-1",
	})

	assert.NoError(t, err)
}
