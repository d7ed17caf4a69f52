// Package redisrelay publica eventos de dominio en un canal Redis pub/sub
// para consumidores fuera del proceso (ej. websockets del frontend).
package redisrelay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"votes-api/internal/platform/notifier"

	"github.com/redis/go-redis/v9"
)

// Publisher es el subconjunto de *redis.Client que usamos.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type Relay struct {
	client  Publisher
	channel string
	source  string
}

func New(client Publisher, channel, source string) (*Relay, error) {
	if client == nil {
		return nil, errors.New("redisrelay: nil client")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return nil, errors.New("redisrelay: channel required")
	}
	return &Relay{client: client, channel: channel, source: source}, nil
}

// Handle implementa notifier.Handler. Sin subscribers en Redis el mensaje se pierde.
func (r *Relay) Handle(ctx context.Context, e notifier.Event) error {
	b, err := notifier.NewEnvelope(r.source, e).Marshal()
	if err != nil {
		return fmt.Errorf("redisrelay: marshal: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, b).Err(); err != nil {
		return fmt.Errorf("redisrelay: publish %s: %w", e.Kind(), err)
	}
	return nil
}
