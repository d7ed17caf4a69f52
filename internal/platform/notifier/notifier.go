// Package notifier es el relay in-process de eventos de dominio.
//
// No persiste ni reintenta: si nadie está suscrito al publicar, el evento se pierde.
// Se construye una vez en main y se inyecta a quien publique o se suscriba.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"votes-api/internal/platform/logger"
)

var (
	ErrSubscriberFailure = errors.New("subscriber failure")
)

// Kind identifica la variante de evento.
type Kind string

// Event es un hecho ya ocurrido; los handlers no deben mutarlo.
type Event interface {
	Kind() Kind
	OccurredAt() time.Time
}

type Handler func(ctx context.Context, e Event) error

// Subscription es el handle devuelto por Subscribe.
type Subscription struct {
	kind Kind
	id   uint64
}

func (s Subscription) Kind() Kind { return s.kind }

type subscriber struct {
	id      uint64
	name    string
	handler Handler
}

// Failure es un handler que devolvió error o hizo panic.
type Failure struct {
	Subscriber string
	Err        error
}

// Report resume un Publish. Las fallas nunca se propagan como error del request.
type Report struct {
	Kind      Kind
	Delivered int
	Failures  []Failure
}

func (r Report) OK() bool { return len(r.Failures) == 0 }

// Err une las fallas bajo ErrSubscriberFailure; nil si no hubo.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%w: %s: %v", ErrSubscriberFailure, f.Subscriber, f.Err))
	}
	return errors.Join(errs...)
}

// Observer recibe cada publish y cada falla de subscriber (incluidas las async).
type Observer interface {
	EventPublished(kind Kind)
	SubscriberFailed(kind Kind, subscriber string)
}

type Option func(*Notifier)

func WithObserver(o Observer) Option {
	return func(n *Notifier) { n.observer = o }
}

type Notifier struct {
	mu     sync.RWMutex
	subs   map[Kind][]subscriber
	nextID uint64

	inflight sync.WaitGroup
	log      logger.Logger
	observer Observer
}

func New(log logger.Logger, opts ...Option) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	n := &Notifier{
		subs: make(map[Kind][]subscriber),
		log:  log,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Subscribe agrega handler al final de la lista de kind. No deduplica.
func (n *Notifier) Subscribe(kind Kind, name string, h Handler) Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	if name == "" {
		name = fmt.Sprintf("%s#%d", kind, id)
	}
	n.subs[kind] = append(n.subs[kind], subscriber{id: id, name: name, handler: h})
	return Subscription{kind: kind, id: id}
}

// Unsubscribe devuelve false si la suscripción ya no existía.
func (n *Notifier) Unsubscribe(s Subscription) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	items := n.subs[s.kind]
	for i, sub := range items {
		if sub.id != s.id {
			continue
		}
		// copia nueva: los Publish en curso siguen iterando su snapshot
		filtered := make([]subscriber, 0, len(items)-1)
		filtered = append(filtered, items[:i]...)
		filtered = append(filtered, items[i+1:]...)
		n.subs[s.kind] = filtered
		return true
	}
	return false
}

// Subscribers cuenta handlers registrados para kind.
func (n *Notifier) Subscribers(kind Kind) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs[kind])
}

// Publish invoca en orden de registro a todos los handlers de e.Kind().
// Vuelve cuando todos fueron invocados (los envueltos con Async solo se lanzan).
func (n *Notifier) Publish(ctx context.Context, e Event) Report {
	if e == nil {
		return Report{}
	}
	kind := e.Kind()

	n.mu.RLock()
	subs := append([]subscriber(nil), n.subs[kind]...)
	n.mu.RUnlock()

	if n.observer != nil {
		n.observer.EventPublished(kind)
	}

	rep := Report{Kind: kind}
	if len(subs) == 0 {
		n.log.Debug("event dropped, no subscribers", map[string]any{"kind": string(kind)})
		return rep
	}

	for _, sub := range subs {
		if err := invoke(ctx, sub.handler, e); err != nil {
			rep.Failures = append(rep.Failures, Failure{Subscriber: sub.name, Err: err})
			n.failed(kind, sub.name)
			n.log.Warn("event subscriber failed", map[string]any{
				"kind":       string(kind),
				"subscriber": sub.name,
				"error":      err.Error(),
			})
			continue
		}
		rep.Delivered++
	}
	return rep
}

// Async envuelve h para correr desacoplado del request: usa un contexto sin
// cancelación (con timeout si > 0) y loguea su error. Drain espera a estos.
func (n *Notifier) Async(name string, timeout time.Duration, h Handler) Handler {
	return func(ctx context.Context, e Event) error {
		n.inflight.Add(1)
		detached := context.WithoutCancel(ctx)

		go func() {
			defer n.inflight.Done()

			runCtx := detached
			if timeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(detached, timeout)
				defer cancel()
			}

			if err := invoke(runCtx, h, e); err != nil {
				n.failed(e.Kind(), name)
				n.log.Warn("async event subscriber failed", map[string]any{
					"kind":       string(e.Kind()),
					"subscriber": name,
					"error":      err.Error(),
				})
			}
		}()
		return nil
	}
}

// Drain espera a los handlers Async en vuelo o a que ctx termine.
func (n *Notifier) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Notifier) failed(kind Kind, name string) {
	if n.observer != nil {
		n.observer.SubscriberFailed(kind, name)
	}
}

func invoke(ctx context.Context, h Handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, e)
}
