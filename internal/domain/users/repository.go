package users

import (
	"context"
	"time"

	"votes-api/internal/domain/agecheck"
)

// Repository lo implementan los adapters de storage (memory, postgres).
// Deben devolver ErrNotFound / ErrEmailTaken (pueden venir envueltos).
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	SetBirthdate(ctx context.Context, id string, birthdate agecheck.Date, updatedAt time.Time) error
}
