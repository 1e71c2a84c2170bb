package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BoardChangedPayload é o "algo mudou" publicado depois de cada mutação
// commitada no conjunto de leads. Quem consome só invalida e refaz o
// fetch; não existe patch fino.
type BoardChangedPayload struct {
	LeadID  string `json:"lead_id"`
	Board   string `json:"board,omitempty"`
	Stage   string `json:"stage,omitempty"`
	ActorID string `json:"actor_id,omitempty"`
	Action  string `json:"action"` // stage_moved | lead_captured
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishBoardChanged(ctx context.Context, payload BoardChangedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
