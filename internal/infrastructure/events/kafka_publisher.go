// Package events publica eventos de dominio en Kafka después de confirmar cada transacción.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Almacen-api/internal/application/ports"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// messageWriter abstrae kafka.Writer para tests.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica cada evento como un mensaje JSON con Key = agregado,
// así los eventos de un mismo producto o pedido caen en la misma partición y conservan orden.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher crea el writer sobre los brokers dados.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}}
}

// NewKafkaPublisherWith inyecta un writer (tests).
func NewKafkaPublisherWith(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish envía los eventos en un solo lote.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...ports.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		b, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", ev.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(ev.Key),
			Value:   b,
			Time:    ev.OccurredAt,
			Headers: []kafka.Header{{Key: "type", Value: []byte(ev.Type)}},
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close libera el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
