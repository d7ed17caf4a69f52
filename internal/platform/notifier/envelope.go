package notifier

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Subject lo implementan los eventos que tienen una entidad principal (vote id, user id).
type Subject interface {
	SubjectID() string
}

// Envelope es la forma serializada que usan los relays externos (webhook, redis, kafka).
type Envelope struct {
	EventID       string    `json:"event_id"`
	EventType     Kind      `json:"event_type"`
	SourceService string    `json:"source_service"`
	OccurredAtUTC time.Time `json:"occurred_at_utc"`
	EntityID      string    `json:"entity_id,omitempty"`
	Payload       Event     `json:"payload"`
}

func NewEnvelope(source string, e Event) Envelope {
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     e.Kind(),
		SourceService: source,
		OccurredAtUTC: e.OccurredAt().UTC(),
		Payload:       e,
	}
	if s, ok := e.(Subject); ok {
		env.EntityID = s.SubjectID()
	}
	return env
}

func (env Envelope) Marshal() ([]byte, error) {
	return json.Marshal(env)
}
