package users

import (
	"time"

	"votes-api/internal/platform/notifier"
)

const (
	KindUserRegistered notifier.Kind = "user:registered"
	KindAgeVerified    notifier.Kind = "user:age_verified"
)

type UserRegistered struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

func (e UserRegistered) Kind() notifier.Kind   { return KindUserRegistered }
func (e UserRegistered) OccurredAt() time.Time { return e.Timestamp }
func (e UserRegistered) SubjectID() string     { return e.UserID }

// AgeVerified se emite cuando el usuario informa (o corrige) su fecha de nacimiento.
type AgeVerified struct {
	UserID    string    `json:"userId"`
	Age       int       `json:"age"`
	Timestamp time.Time `json:"timestamp"`
}

func (e AgeVerified) Kind() notifier.Kind   { return KindAgeVerified }
func (e AgeVerified) OccurredAt() time.Time { return e.Timestamp }
func (e AgeVerified) SubjectID() string     { return e.UserID }
