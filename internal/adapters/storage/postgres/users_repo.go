package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"votes-api/internal/domain/agecheck"
	"votes-api/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, name, role,
			password_hash, birthdate,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		u.ID,
		u.Email,
		u.Name,
		string(u.Role),
		u.PasswordHash,
		toNullDate(u.Birthdate),
		u.CreatedAt,
		u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return users.ErrEmailTaken
	}
	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, users.ErrNotFound
	}
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return users.User{}, users.ErrNotFound
	}
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *UsersRepo) SetBirthdate(ctx context.Context, id string, birthdate agecheck.Date, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET birthdate = $2, updated_at = $3
		WHERE id = $1
	`, id, birthdate.Time(), updatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) getOne(ctx context.Context, where string, arg any) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, email, name, role,
			password_hash, birthdate,
			created_at, updated_at
		FROM users
		`+where, arg)

	var u users.User
	var role string
	var bd sql.NullTime
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&role,
		&u.PasswordHash,
		&bd,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}

	u.Role = users.Role(role)
	u.Birthdate = fromNullDate(bd)
	return u, nil
}

// birthdate es DATE; pgx lo devuelve como time.Time a medianoche UTC
func toNullDate(d *agecheck.Date) sql.NullTime {
	if d == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: d.Time(), Valid: true}
}

func fromNullDate(nt sql.NullTime) *agecheck.Date {
	if !nt.Valid {
		return nil
	}
	d := agecheck.DateOf(nt.Time.UTC())
	return &d
}
