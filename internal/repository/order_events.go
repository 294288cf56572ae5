// Package repository holds infrastructure-backed implementations of the
// domain repository interfaces.
package repository

import (
	"context"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/domain/repository"
	pkgkafka "TradePulse/pkg/kafka"
)

// KafkaOrderEvents publishes resolved order events to a Kafka topic, keyed
// by user id so one account's fills stay ordered on a partition.
type KafkaOrderEvents struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaOrderEvents creates the Kafka-backed order event publisher.
func NewKafkaOrderEvents(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaOrderEvents{producer: producer, topic: topic}
}

func (p *KafkaOrderEvents) Publish(ctx context.Context, ev *models.OrderEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.UserID), ev)
}

func (p *KafkaOrderEvents) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
