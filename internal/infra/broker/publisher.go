package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-SlotService/internal/queue"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события слотов в topic-exchange RabbitMQ
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	log      Logger
}

// NewPublisher подключается к брокеру и объявляет exchange (идемпотентно)
func NewPublisher(url, exchange string, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("broker: dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("broker: channel open failed: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("broker: exchange declare failed: %w", err)
	}

	return &Publisher{conn: conn, ch: ch, exchange: exchange, log: log}, nil
}

// PublishSlotHeld публикует событие slot.held
func (p *Publisher) PublishSlotHeld(ctx context.Context, event queue.SlotHeldEvent) error {
	return p.publish(ctx, queue.RoutingSlotHeld, event)
}

// PublishSlotReleased публикует событие slot.released
func (p *Publisher) PublishSlotReleased(ctx context.Context, event queue.SlotReleasedEvent) error {
	return p.publish(ctx, queue.RoutingSlotReleased, event)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event interface{}) error {
	msg, err := newPublishing(event, time.Now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	); err != nil {
		p.log.Error("Broker: publish %s failed: %v", routingKey, err)
		return fmt.Errorf("broker: publish %s: %w", routingKey, err)
	}

	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

func newPublishing(event interface{}, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("broker: marshal event: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		Body:         body,
	}, nil
}

// NopPublisher используется, когда брокер выключен в конфигурации
type NopPublisher struct{}

func (NopPublisher) PublishSlotHeld(context.Context, queue.SlotHeldEvent) error { return nil }

func (NopPublisher) PublishSlotReleased(context.Context, queue.SlotReleasedEvent) error { return nil }
