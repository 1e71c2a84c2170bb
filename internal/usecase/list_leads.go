package usecase

import (
	"context"
	"strings"

	"github.com/gbcsales/pipeline-api/internal/entity"
)

// Seleção de dono no filtro do board.
const (
	OwnerMine = "mine"
	OwnerAll  = "all"
)

// Placeholder do board de produto sem tipo de evento selecionado.
const ProductBoardPlaceholder = "Selecione ao menos um tipo de evento para carregar o board de produto."

type ListLeadsInput struct {
	Board      string   `json:"board"`
	Products   []string `json:"products,omitempty"`
	Owner      string   `json:"owner,omitempty"` // mine | all (default all)
	Search     string   `json:"search,omitempty"`
	ScoreMin   *float64 `json:"score_min,omitempty"`
	ScoreMax   *float64 `json:"score_max,omitempty"`
	EventTypes []string `json:"event_types,omitempty"`
	Sort       string   `json:"sort,omitempty"`
	ActorID    string   `json:"-"`
}

type ListLeadsOutput struct {
	Leads       []*entity.Lead `json:"leads"`
	Columns     []string       `json:"columns"`
	Placeholder string         `json:"placeholder,omitempty"`
}

// ListLeadsUseCase é o lado de consulta do Pipeline Store: traduz os
// filtros do board para o repositório e aplica as regras por board
// (produto único na mentoria, board de produto vazio sem tipos de evento).
type ListLeadsUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
}

func NewListLeadsUseCase(leadRepo entity.LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{LeadRepo: leadRepo}
}

func (uc *ListLeadsUseCase) Execute(ctx context.Context, input ListLeadsInput) (*ListLeadsOutput, error) {
	if !entity.IsValidBoard(input.Board) {
		return nil, &DomainError{Code: CodeInvalidBoard, Message: "board inválido: " + input.Board}
	}

	// O board de produto é guiado por evento, não por lead: sem tipo de
	// evento selecionado ele renderiza vazio com o placeholder.
	if input.Board == entity.BoardProduto && len(input.EventTypes) == 0 {
		return &ListLeadsOutput{
			Leads:       []*entity.Lead{},
			Columns:     entity.BoardStages(input.Board),
			Placeholder: ProductBoardPlaceholder,
		}, nil
	}

	filter := entity.LeadFilter{
		Board:      input.Board,
		Search:     strings.TrimSpace(input.Search),
		ScoreMin:   input.ScoreMin,
		ScoreMax:   input.ScoreMax,
		EventTypes: input.EventTypes,
		Sort:       normalizeSort(input.Sort),
	}

	// Mentoria filtra por um produto só; o board de produto aceita vários.
	if input.Board == entity.BoardMentoria && len(input.Products) > 1 {
		filter.Products = input.Products[:1]
	} else {
		filter.Products = input.Products
	}

	if input.Owner == OwnerMine {
		filter.OwnerID = input.ActorID
	}

	leads, err := uc.LeadRepo.Fetch(ctx, filter)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "falha ao buscar leads: " + err.Error()}
	}

	return &ListLeadsOutput{Leads: leads, Columns: entity.BoardStages(input.Board)}, nil
}

func normalizeSort(sort string) string {
	switch sort {
	case entity.SortCreatedAsc, entity.SortLastInteraction, entity.SortNewest, entity.SortScoreDesc:
		return sort
	default:
		return entity.SortScoreDesc
	}
}
