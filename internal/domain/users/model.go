package users

import (
	"time"

	"votes-api/internal/domain/agecheck"
)

// Role define permisos gruesos del usuario.
// @Enum user, admin
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User es la identidad registrada. Birthdate es opcional: nil = nunca informada.
type User struct {
	ID    string
	Email string
	Name  string
	Role  Role

	PasswordHash string

	Birthdate *agecheck.Date

	CreatedAt time.Time
	UpdatedAt time.Time
}
