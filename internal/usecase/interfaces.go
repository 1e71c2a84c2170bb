package usecase

import (
	"context"

	"github.com/gbcsales/pipeline-api/internal/infra/queue"
)

// Notifier é a superfície de toast: título + descrição + severidade.
// Como é renderizado não interessa aqui.
type Notifier interface {
	Notify(notice Notice)
}

type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"` // success | error
}

// MoveLocker é a trava consultiva por lead: segura enquanto um commit
// está em voo e impede um segundo movimento concorrente no mesmo card.
type MoveLocker interface {
	Acquire(ctx context.Context, leadID string) (release func(), err error)
}

// QueueProducerInterface publica o "algo mudou" que dispara o
// invalidate-and-refetch dos boards conectados.
type QueueProducerInterface interface {
	PublishBoardChanged(ctx context.Context, payload queue.BoardChangedPayload) error
}
