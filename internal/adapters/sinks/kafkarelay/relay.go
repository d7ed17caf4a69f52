// Package kafkarelay produce eventos de dominio a un topic Kafka.
package kafkarelay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"votes-api/internal/platform/notifier"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer es el subconjunto de *kgo.Client que usamos.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Relay struct {
	producer Producer
	topic    string
	source   string
}

// NewClient arma un *kgo.Client con acks de todas las réplicas.
func NewClient(brokers []string, topic string) (*kgo.Client, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafkarelay: brokers required")
	}
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
}

func New(p Producer, topic, source string) (*Relay, error) {
	if p == nil {
		return nil, errors.New("kafkarelay: nil producer")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.New("kafkarelay: topic required")
	}
	return &Relay{producer: p, topic: topic, source: source}, nil
}

// Handle implementa notifier.Handler. La key es la entidad para mantener
// orden por voto/usuario dentro de la partición.
func (r *Relay) Handle(ctx context.Context, e notifier.Event) error {
	env := notifier.NewEnvelope(r.source, e)
	b, err := env.Marshal()
	if err != nil {
		return fmt.Errorf("kafkarelay: marshal: %w", err)
	}

	rec := &kgo.Record{
		Topic: r.topic,
		Key:   []byte(env.EntityID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(env.EventType)},
			{Key: "event_id", Value: []byte(env.EventID)},
		},
	}
	if err := r.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("kafkarelay: produce %s: %w", e.Kind(), err)
	}
	return nil
}

func (r *Relay) Close() {
	r.producer.Close()
}
