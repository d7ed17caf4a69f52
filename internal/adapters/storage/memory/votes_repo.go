package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"votes-api/internal/domain/votes"
)

type voteRepo struct {
	mu   sync.RWMutex
	byID map[string]votes.Vote
}

func NewVoteRepo() votes.Repository {
	return &voteRepo{
		byID: make(map[string]votes.Vote),
	}
}

func (r *voteRepo) Insert(ctx context.Context, v votes.Vote) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("vote id required")
	}
	if _, exists := r.byID[v.ID]; exists {
		return errors.New("vote already exists")
	}
	r.byID[v.ID] = v
	return nil
}

func (r *voteRepo) GetByID(ctx context.Context, id string) (votes.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return votes.Vote{}, votes.ErrNotFound
	}
	return v, nil
}

func (r *voteRepo) UpdateChoice(ctx context.Context, voteID, userID, newChoice string, updatedAt time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byID[voteID]
	if !ok {
		return "", votes.ErrNotFound
	}
	if v.UserID != userID {
		return "", votes.ErrForbidden
	}

	previous := v.Choice
	v.Choice = newChoice
	v.UpdatedAt = updatedAt
	r.byID[voteID] = v
	return previous, nil
}

func (r *voteRepo) ListByUser(ctx context.Context, userID string) ([]votes.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]votes.Vote, 0)
	for _, v := range r.byID {
		if v.UserID == userID {
			out = append(out, v)
		}
	}

	// Orden estable por created_at asc
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
