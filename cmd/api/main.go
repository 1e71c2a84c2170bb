package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/gbcsales/pipeline-api/internal/entity"
	"github.com/gbcsales/pipeline-api/internal/infra/database"
	"github.com/gbcsales/pipeline-api/internal/infra/http/handlers"
	"github.com/gbcsales/pipeline-api/internal/infra/http/middleware"
	"github.com/gbcsales/pipeline-api/internal/infra/lock"
	"github.com/gbcsales/pipeline-api/internal/infra/mail"
	"github.com/gbcsales/pipeline-api/internal/infra/queue"
	"github.com/gbcsales/pipeline-api/internal/infra/realtime"
	"github.com/gbcsales/pipeline-api/internal/infra/worker"
	"github.com/gbcsales/pipeline-api/internal/usecase"
)

// invalidationFanout entrega o board.changed para os dois consumidores:
// o hub de websocket e o snapshot em memória.
type invalidationFanout struct {
	hub      *realtime.Hub
	snapshot *usecase.BoardStore
}

func (f invalidationFanout) BroadcastInvalidation(payload queue.BoardChangedPayload) {
	f.hub.BroadcastInvalidation(payload)
	f.snapshot.Invalidate(context.Background())
}

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "user"),
		envOr("RABBITMQ_PASS", "password"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: envOr("REDIS_ADDR", "localhost:6379"),
	})
	defer redisClient.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	userRepo := database.NewUserRepository(db)
	interactionRepo := database.NewInteractionRepository(db)

	// 2. Infra de movimento: trava por lead + produtor de invalidação
	moveLock := lock.NewMoveLock(redisClient)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	// 3. Consulta do board + snapshot em memória (mentoria)
	listUC := usecase.NewListLeadsUseCase(leadRepo)
	snapshot := usecase.NewBoardStore(listUC, usecase.ListLeadsInput{
		Board: entity.BoardMentoria,
		Sort:  entity.SortScoreDesc,
	})
	snapshot.Invalidate(context.Background())

	// 4. Realtime: worker consome a fila e faz fan-out pro hub + snapshot
	hub := realtime.NewHub()
	invalidationWorker := queue.NewWorker(rabbitMQ.Ch, invalidationFanout{hub: hub, snapshot: snapshot})
	go invalidationWorker.Start(queue.QueueName)

	// 5. Lembrete de contato atrasado
	mailPort, _ := strconv.Atoi(envOr("MAIL_PORT", "587"))
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), mailPort, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
	)
	reminderWorker := worker.NewContactReminderWorker(db, mailSender)
	go reminderWorker.Start(context.Background())

	// 6. Handlers
	moveHandler := handlers.NewMoveHandler(leadRepo, userRepo, interactionRepo, moveLock, producer)
	boardHandler := handlers.NewBoardHandler(listUC, snapshot)
	leadHandler := handlers.NewLeadHandler(leadRepo, producer)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, redisClient)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/leads/capture", leadHandler.CaptureLead)
	r.Get("/ws/board", hub.Handle)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(userRepo))
		r.Get("/board", boardHandler.HandleList)
		r.Get("/board/snapshot", boardHandler.HandleSnapshot)
		r.Post("/leads/{leadId}/move", moveHandler.Handle)
		r.Get("/leads/{leadId}/move/defaults", moveHandler.HandleDefaults)
	})

	port := ":8080"
	log.Printf("🔥 Pipeline API rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
