package votes

import (
	"time"

	"votes-api/internal/platform/notifier"
)

const (
	KindVoteCast    notifier.Kind = "vote:cast"
	KindVoteChanged notifier.Kind = "vote:changed"
)

// VoteCast se publica después de persistir un voto nuevo.
type VoteCast struct {
	UserID    string    `json:"userId"`
	VoteID    string    `json:"voteId"`
	PollID    string    `json:"pollId"`
	Choice    string    `json:"choice"`
	Timestamp time.Time `json:"timestamp"`
}

func (e VoteCast) Kind() notifier.Kind   { return KindVoteCast }
func (e VoteCast) OccurredAt() time.Time { return e.Timestamp }
func (e VoteCast) SubjectID() string     { return e.VoteID }

// VoteChanged lleva ambas elecciones; PreviousChoice sale del store, no del request.
type VoteChanged struct {
	UserID         string    `json:"userId"`
	VoteID         string    `json:"voteId"`
	PollID         string    `json:"pollId"`
	PreviousChoice string    `json:"previousChoice"`
	NewChoice      string    `json:"newChoice"`
	Timestamp      time.Time `json:"timestamp"`
}

func (e VoteChanged) Kind() notifier.Kind   { return KindVoteChanged }
func (e VoteChanged) OccurredAt() time.Time { return e.Timestamp }
func (e VoteChanged) SubjectID() string     { return e.VoteID }
