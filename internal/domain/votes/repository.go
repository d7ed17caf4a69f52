package votes

import (
	"context"
	"time"
)

// Repository: el store es quien valida ownership en UpdateChoice
// (ErrNotFound si no existe, ErrForbidden si es de otro usuario).
type Repository interface {
	Insert(ctx context.Context, v Vote) error
	GetByID(ctx context.Context, id string) (Vote, error)
	UpdateChoice(ctx context.Context, voteID, userID, newChoice string, updatedAt time.Time) (previous string, err error)
	ListByUser(ctx context.Context, userID string) ([]Vote, error)
}
