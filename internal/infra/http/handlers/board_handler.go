package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gbcsales/pipeline-api/internal/infra/http/middleware"
	"github.com/gbcsales/pipeline-api/internal/usecase"
)

type BoardHandler struct {
	ListUC   *usecase.ListLeadsUseCase
	Snapshot *usecase.BoardStore
}

func NewBoardHandler(listUC *usecase.ListLeadsUseCase, snapshot *usecase.BoardStore) *BoardHandler {
	return &BoardHandler{ListUC: listUC, Snapshot: snapshot}
}

// HandleList é o fetch do board com todos os filtros na query string.
func (h *BoardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := usecase.ListLeadsInput{
		Board:      q.Get("board"),
		Products:   splitParam(q.Get("products")),
		Owner:      q.Get("owner"),
		Search:     q.Get("search"),
		EventTypes: splitParam(q.Get("event_types")),
		Sort:       q.Get("sort"),
		ActorID:    middleware.ActorID(r),
	}

	if v, err := strconv.ParseFloat(q.Get("score_min"), 64); err == nil {
		input.ScoreMin = &v
	}
	if v, err := strconv.ParseFloat(q.Get("score_max"), 64); err == nil {
		input.ScoreMax = &v
	}

	output, err := h.ListUC.Execute(r.Context(), input)
	if err != nil {
		status := http.StatusInternalServerError
		if usecase.IsDomainError(err) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(output)
}

// HandleSnapshot serve a última visão em memória do board de mentoria,
// mantida pelo BoardStore e invalidada pelos eventos da fila.
func (h *BoardHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	leads, version := h.Snapshot.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"leads":   leads,
		"version": version,
	})
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
