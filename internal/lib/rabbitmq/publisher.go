package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/messenger/internal/models"
)

const (
	// RoutingKeyGroup ключ маршрутизации сообщений общего чата.
	RoutingKeyGroup = "message.group"
	// RoutingKeyPrivate ключ маршрутизации личных сообщений и «Избранного».
	RoutingKeyPrivate = "message.private"
)

// MessageEvent: тело события о сохранённом сообщении.
type MessageEvent struct {
	ID          int64     `json:"id"`
	SenderUID   string    `json:"sender_uid"`
	ReceiverUID string    `json:"receiver_uid"`
	IsGroup     bool      `json:"is_group"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewMessageEvent строит событие из сохранённого сообщения.
func NewMessageEvent(msg models.Message) MessageEvent {
	return MessageEvent{
		ID:          msg.ID,
		SenderUID:   msg.SenderUID,
		ReceiverUID: msg.ReceiverUID,
		IsGroup:     msg.IsGroup,
		Text:        msg.Text,
		CreatedAt:   msg.Timestamp,
	}
}

// RoutingKey возвращает ключ маршрутизации для сообщения.
func RoutingKey(msg models.Message) string {
	if msg.IsGroup {
		return RoutingKeyGroup
	}
	return RoutingKeyPrivate
}

// Channel: часть amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage сериализует message в JSON и публикует его в exchange.
func PublishMessage(ch Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MessagePublisher публикует события о сообщениях в один exchange.
type MessagePublisher struct {
	mu       sync.Mutex
	ch       Channel
	exchange string
}

// NewMessagePublisher создаёт публикатор поверх открытого канала.
func NewMessagePublisher(ch Channel, exchange string) *MessagePublisher {
	return &MessagePublisher{ch: ch, exchange: exchange}
}

// PublishMessage публикует событие о сообщении msg.
func (p *MessagePublisher) PublishMessage(ctx context.Context, msg models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return PublishMessage(p.ch, p.exchange, RoutingKey(msg), NewMessageEvent(msg))
}

// NoopPublisher используется, когда брокер не настроен.
type NoopPublisher struct{}

// PublishMessage ничего не делает.
func (NoopPublisher) PublishMessage(context.Context, models.Message) error {
	return nil
}
