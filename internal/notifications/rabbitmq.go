package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// BrokerPublisher публикация JSON-сообщения с ключом маршрутизации
type BrokerPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RabbitPublisher публикует сообщения в topic exchange RabbitMQ
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewRabbitPublisher подключается к брокеру и объявляет exchange
func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishJSON сериализует v и публикует с ключом key
func (p *RabbitPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         b,
	})
}

// Close закрывает канал и соединение
func (p *RabbitPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Tee публикует в локальное хранилище и зеркалирует в брокер.
// Ошибка брокера логируется и не мешает локальной доставке
type Tee struct {
	Store
	broker BrokerPublisher
	log    Logger
}

// NewTee оборачивает локальное хранилище зеркалированием в брокер
func NewTee(store Store, broker BrokerPublisher, log Logger) *Tee {
	return &Tee{
		Store:  store,
		broker: broker,
		log:    log,
	}
}

// Publish сохраняет уведомление локально и отправляет его в брокер с ключом = kind
func (t *Tee) Publish(ctx context.Context, n domain.Notification) error {
	if err := t.Store.Publish(ctx, n); err != nil {
		return err
	}

	if err := t.broker.PublishJSON(ctx, string(n.Kind), n); err != nil {
		t.log.Error("Publish: failed to mirror notification kind=%s to broker: %v", n.Kind, err)
	}
	return nil
}
