// Package webhook reenvía eventos de dominio a un endpoint HTTP externo
// (proveedor de push / notificaciones).
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"votes-api/internal/platform/httpclient"
	"votes-api/internal/platform/notifier"
)

var ErrNotConfigured = errors.New("webhook url not configured")

type Config struct {
	URL     string
	Source  string
	Timeout time.Duration

	// Attempts incluye el primer intento. Default 3.
	Attempts int
	Backoff  time.Duration
}

type Sink struct {
	url      string
	source   string
	client   *httpclient.Client
	attempts int
	backoff  time.Duration
}

func New(cfg Config) (*Sink, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, ErrNotConfigured
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return &Sink{
		url:      url,
		source:   cfg.Source,
		client:   httpclient.New(cfg.Timeout),
		attempts: attempts,
		backoff:  backoff,
	}, nil
}

// Handle implementa notifier.Handler. Reintenta errores transitorios con backoff lineal.
func (s *Sink) Handle(ctx context.Context, e notifier.Event) error {
	env := notifier.NewEnvelope(s.source, e)
	headers := map[string]string{
		"X-Event-Type": string(env.EventType),
		"X-Event-ID":   env.EventID,
	}

	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err = s.client.DoJSON(ctx, http.MethodPost, s.url, headers, env, nil)
		if err == nil || !httpclient.Retryable(err) {
			break
		}
		if attempt == s.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * s.backoff):
		}
	}
	if err != nil {
		return fmt.Errorf("webhook %s: %w", env.EventType, err)
	}
	return nil
}
