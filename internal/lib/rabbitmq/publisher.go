package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/voucher-marketplace/internal/models"
)

// Publisher публикует события бронирования в обменник RabbitMQ.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// Publish сериализует событие в JSON и публикует его в очередь событий
// бронирования с persistent-доставкой.
func (p *Publisher) Publish(event models.BookingEvent) error {
	const op = "rabbitmq.Publish"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		BookingsExchange,
		BookingsQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NoopPublisher используется, когда брокер недоступен или не настроен:
// события просто отбрасываются.
type NoopPublisher struct{}

// Publish ничего не делает.
func (NoopPublisher) Publish(models.BookingEvent) error { return nil }
