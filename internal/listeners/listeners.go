// Package listeners conecta los subscribers del proceso al notifier.
package listeners

import (
	"context"
	"fmt"
	"time"

	"votes-api/internal/domain/users"
	"votes-api/internal/domain/votes"
	"votes-api/internal/platform/logger"
	"votes-api/internal/platform/metrics"
	"votes-api/internal/platform/notifier"
)

// DomainKinds son los eventos que se reenvían a sinks externos.
var DomainKinds = []notifier.Kind{
	votes.KindVoteCast,
	votes.KindVoteChanged,
	users.KindUserRegistered,
	users.KindAgeVerified,
}

// RegisterLogging loguea cada evento de dominio a nivel info.
func RegisterLogging(n *notifier.Notifier, log logger.Logger) {
	log = log.With(map[string]any{"component": "listeners"})

	n.Subscribe(votes.KindVoteCast, "log.vote_cast", func(ctx context.Context, e notifier.Event) error {
		ev, ok := e.(votes.VoteCast)
		if !ok {
			return unexpected(e)
		}
		log.Info("vote cast", map[string]any{
			"user_id": ev.UserID,
			"vote_id": ev.VoteID,
			"poll_id": ev.PollID,
			"choice":  ev.Choice,
		})
		return nil
	})

	n.Subscribe(votes.KindVoteChanged, "log.vote_changed", func(ctx context.Context, e notifier.Event) error {
		ev, ok := e.(votes.VoteChanged)
		if !ok {
			return unexpected(e)
		}
		log.Info("vote changed", map[string]any{
			"user_id":         ev.UserID,
			"vote_id":         ev.VoteID,
			"poll_id":         ev.PollID,
			"previous_choice": ev.PreviousChoice,
			"new_choice":      ev.NewChoice,
		})
		return nil
	})

	n.Subscribe(users.KindUserRegistered, "log.user_registered", func(ctx context.Context, e notifier.Event) error {
		ev, ok := e.(users.UserRegistered)
		if !ok {
			return unexpected(e)
		}
		log.Info("user registered", map[string]any{"user_id": ev.UserID, "email": ev.Email})
		return nil
	})

	n.Subscribe(users.KindAgeVerified, "log.age_verified", func(ctx context.Context, e notifier.Event) error {
		ev, ok := e.(users.AgeVerified)
		if !ok {
			return unexpected(e)
		}
		log.Info("user age verified", map[string]any{"user_id": ev.UserID, "age": ev.Age})
		return nil
	})
}

// RegisterMetrics cuenta votos emitidos y cambiados.
func RegisterMetrics(n *notifier.Notifier, m *metrics.Metrics) {
	n.Subscribe(votes.KindVoteCast, "metrics.vote_cast", func(ctx context.Context, e notifier.Event) error {
		m.IncVoteCast()
		return nil
	})
	n.Subscribe(votes.KindVoteChanged, "metrics.vote_changed", func(ctx context.Context, e notifier.Event) error {
		m.IncVoteChanged()
		return nil
	})
}

// MetricsObserver adapta *metrics.Metrics a notifier.Observer.
type MetricsObserver struct {
	M *metrics.Metrics
}

func (o MetricsObserver) EventPublished(kind notifier.Kind) {
	o.M.IncEventPublished(string(kind))
}

func (o MetricsObserver) SubscriberFailed(kind notifier.Kind, subscriber string) {
	o.M.AddSubscriberFailures(string(kind), 1)
}

// Relay suscribe h a todos los DomainKinds, desacoplado del request.
func Relay(n *notifier.Notifier, name string, timeout time.Duration, h notifier.Handler) []notifier.Subscription {
	async := n.Async(name, timeout, h)
	subs := make([]notifier.Subscription, 0, len(DomainKinds))
	for _, k := range DomainKinds {
		subs = append(subs, n.Subscribe(k, name, async))
	}
	return subs
}

func unexpected(e notifier.Event) error {
	return fmt.Errorf("unexpected payload %T for %s", e, e.Kind())
}
