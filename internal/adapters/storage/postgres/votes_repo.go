package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"votes-api/internal/domain/votes"
)

type VotesRepo struct {
	db *sql.DB
}

func NewVotesRepo(db *sql.DB) *VotesRepo {
	return &VotesRepo{db: db}
}

func (r *VotesRepo) Insert(ctx context.Context, v votes.Vote) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO votes (
			id, user_id, poll_id, choice,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		v.ID,
		v.UserID,
		v.PollID,
		v.Choice,
		v.CreatedAt,
		v.UpdatedAt,
	)
	return err
}

func (r *VotesRepo) GetByID(ctx context.Context, id string) (votes.Vote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return votes.Vote{}, votes.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, poll_id, choice, created_at, updated_at
		FROM votes
		WHERE id = $1
	`, id)

	var v votes.Vote
	if err := row.Scan(&v.ID, &v.UserID, &v.PollID, &v.Choice, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return votes.Vote{}, votes.ErrNotFound
		}
		return votes.Vote{}, err
	}
	return v, nil
}

// UpdateChoice bloquea la fila para leer la elección previa y chequear dueño
// en la misma transacción.
func (r *VotesRepo) UpdateChoice(ctx context.Context, voteID, userID, newChoice string, updatedAt time.Time) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var owner, previous string
	err = tx.QueryRowContext(ctx, `
		SELECT user_id, choice
		FROM votes
		WHERE id = $1
		FOR UPDATE
	`, voteID).Scan(&owner, &previous)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", votes.ErrNotFound
		}
		return "", err
	}
	if owner != userID {
		return "", votes.ErrForbidden
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE votes
		SET choice = $2, updated_at = $3
		WHERE id = $1
	`, voteID, newChoice, updatedAt); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return previous, nil
}

func (r *VotesRepo) ListByUser(ctx context.Context, userID string) ([]votes.Vote, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, poll_id, choice, created_at, updated_at
		FROM votes
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]votes.Vote, 0)
	for rows.Next() {
		var v votes.Vote
		if err := rows.Scan(&v.ID, &v.UserID, &v.PollID, &v.Choice, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, rows.Err()
}
