package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BoardBroadcaster é quem empurra a invalidação para os boards abertos
// (hub de websocket) e para o snapshot em memória do servidor.
type BoardBroadcaster interface {
	BroadcastInvalidation(payload BoardChangedPayload)
}

type Worker struct {
	Channel     *amqp.Channel
	Broadcaster BoardBroadcaster
}

func NewWorker(ch *amqp.Channel, broadcaster BoardBroadcaster) *Worker {
	return &Worker{Channel: ch, Broadcaster: broadcaster}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload BoardChangedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] Evento de board malformado: %s", err)
				// Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] board.changed lead=%s action=%s", payload.LeadID, payload.Action)

			// Fan-out é best-effort: o contrato é at-least-once e o
			// refetch do cliente é idempotente.
			w.Broadcaster.BroadcastInvalidation(payload)
			d.Ack(false)
		}
	}()

	log.Printf(" [*] Worker de invalidação aguardando na fila '%s'", queueName)
	<-forever
}
