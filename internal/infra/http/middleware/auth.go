package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gbcsales/pipeline-api/internal/entity"
)

type actorKey struct{}

// Auth resolve o ator pelo bearer token e coloca só o ID no contexto.
// O papel NÃO é cacheado aqui: o use case relê o usuário na hora do
// drop, então papel trocado no meio da sessão vale imediatamente.
func Auth(userRepo entity.UserRepositoryInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				http.Error(w, "token ausente", http.StatusUnauthorized)
				return
			}

			user, err := userRepo.FindByToken(r.Context(), token)
			if err != nil {
				http.Error(w, "token inválido", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey{}, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorID devolve o ID do ator autenticado no request.
func ActorID(r *http.Request) string {
	id, _ := r.Context().Value(actorKey{}).(string)
	return id
}
