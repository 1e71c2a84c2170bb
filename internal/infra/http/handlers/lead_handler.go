package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gbcsales/pipeline-api/internal/entity"
	"github.com/gbcsales/pipeline-api/internal/infra/http/middleware"
	"github.com/gbcsales/pipeline-api/internal/infra/queue"
	"github.com/gbcsales/pipeline-api/internal/usecase"
)

// LeadHandler é a ponta do intake público: cria/atualiza o lead e avisa
// os boards. A validação rica do formulário mora no front; aqui só o
// mínimo para não gravar lixo.
type LeadHandler struct {
	LeadRepo    entity.LeadRepositoryInterface
	Producer    usecase.QueueProducerInterface
	rateLimiter *RateLimiter
}

func NewLeadHandler(leadRepo entity.LeadRepositoryInterface, producer usecase.QueueProducerInterface) *LeadHandler {
	return &LeadHandler{
		LeadRepo:    leadRepo,
		Producer:    producer,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min por IP
	}
}

type CaptureLeadRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Product string `json:"product,omitempty"`
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Content-Type", "application/json")

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(CaptureLeadResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var req CaptureLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CaptureLeadResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return
	}

	if req.Email == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CaptureLeadResponse{
			Success: false,
			Message: "Email is required",
		})
		return
	}

	lead, err := entity.NewLead(req.Name, req.Email, req.Phone, req.Product)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CaptureLeadResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	if err := h.LeadRepo.Upsert(ctx, lead); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(CaptureLeadResponse{
			Success: false,
			Message: "Failed to capture lead",
		})
		return
	}

	middleware.RecordLeadCaptured()

	// Lead novo no funil: boards abertos invalidam e refazem o fetch.
	if h.Producer != nil {
		payload := queue.BoardChangedPayload{LeadID: lead.ID, Stage: lead.Stage, Action: "lead_captured"}
		if err := h.Producer.PublishBoardChanged(ctx, payload); err != nil {
			log.Printf("⚠️ Lead capturado mas falha ao publicar evento: %v", err)
		}
	}

	json.NewEncoder(w).Encode(CaptureLeadResponse{Success: true})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
