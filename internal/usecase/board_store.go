package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/gbcsales/pipeline-api/internal/entity"
)

// BoardStore mantém o snapshot em memória de um board e reage a
// notificações de mudança com invalidate-and-refetch. O sinal é
// at-least-once: uma invalidação que chega com um refetch em voo
// marca o snapshot como sujo em vez de duplicar a consulta.
type BoardStore struct {
	list  *ListLeadsUseCase
	input ListLeadsInput

	mu       sync.Mutex
	leads    []*entity.Lead
	version  uint64
	fetching bool
	dirty    bool
}

func NewBoardStore(list *ListLeadsUseCase, input ListLeadsInput) *BoardStore {
	return &BoardStore{list: list, input: input}
}

// Snapshot devolve a última visão consistente do board e a versão dela.
// Nunca reflete mutação local otimista: só o que o fetch trouxe.
func (s *BoardStore) Snapshot() ([]*entity.Lead, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leads, s.version
}

// Invalidate agenda um refetch completo do board visível. Chamadas
// enquanto outro refetch está em voo coalescem num único fetch extra.
func (s *BoardStore) Invalidate(ctx context.Context) {
	s.mu.Lock()
	if s.fetching {
		s.dirty = true
		s.mu.Unlock()
		return
	}
	s.fetching = true
	s.mu.Unlock()

	go s.refetch(ctx)
}

func (s *BoardStore) refetch(ctx context.Context) {
	for {
		out, err := s.list.Execute(ctx, s.input)

		s.mu.Lock()
		if err != nil {
			// Snapshot anterior continua valendo; a próxima invalidação
			// tenta de novo.
			log.Printf("⚠️ Refetch do board %s falhou: %v", s.input.Board, err)
		} else {
			s.leads = out.Leads
			s.version++
		}
		if s.dirty {
			s.dirty = false
			s.mu.Unlock()
			continue
		}
		s.fetching = false
		s.mu.Unlock()
		return
	}
}
