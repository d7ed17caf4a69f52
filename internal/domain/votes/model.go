package votes

import "time"

// Vote es un voto persistido. Choice es opaco para el core.
type Vote struct {
	ID     string
	UserID string
	PollID string
	Choice string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CastInput struct {
	PollID string
	Choice string
}
