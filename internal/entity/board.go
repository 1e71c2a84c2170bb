package entity

// Boards disponíveis. Cada board restringe o conjunto de estágios
// alcançáveis por drag-and-drop.
const (
	BoardMentoria = "mentoria"
	BoardProduto  = "produto"
)

var boardStages = map[string]map[string]bool{
	BoardMentoria: {
		StageFirstContact: true,
		StageNextContact:  true,
		StageNegotiating:  true,
		StageProposal:     true,
		StageFollowUp:     true,
		StageWon:          true,
		StageLost:         true,
	},
	// No board de produto o proximo_contato é exibido como "segundo contato".
	BoardProduto: {
		StageFirstContact: true,
		StageNextContact:  true,
		StageWon:          true,
		StageLost:         true,
	},
}

var allStages = map[string]bool{
	StageFirstContact: true,
	StageNextContact:  true,
	StageNegotiating:  true,
	StageProposal:     true,
	StageFollowUp:     true,
	StageWon:          true,
	StageLost:         true,
	StagePaid:         true,
}

func IsValidStage(stage string) bool {
	return allStages[stage]
}

func IsValidBoard(board string) bool {
	_, ok := boardStages[board]
	return ok
}

// StageReachable responde se o estágio é um alvo legal de drag no board.
// Board desconhecido nega tudo.
func StageReachable(board, stage string) bool {
	stages, ok := boardStages[board]
	if !ok {
		return false
	}
	return stages[stage]
}

// BoardStages devolve os estágios do board na ordem das colunas.
func BoardStages(board string) []string {
	switch board {
	case BoardMentoria:
		return []string{
			StageFirstContact, StageNextContact, StageNegotiating,
			StageProposal, StageFollowUp, StageWon, StageLost,
		}
	case BoardProduto:
		return []string{StageFirstContact, StageNextContact, StageWon, StageLost}
	default:
		return nil
	}
}
