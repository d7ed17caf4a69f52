package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"votes-api/internal/domain/agecheck"
	"votes-api/internal/platform/notifier"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// maxAge acota fechas de nacimiento absurdas (typos tipo 1026-05-01).
const maxAge = 150

// Publisher es el subconjunto del notifier que usa el servicio.
type Publisher interface {
	Publish(ctx context.Context, e notifier.Event) notifier.Report
}

type Service struct {
	repo      Repository
	publisher Publisher
	gate      *agecheck.Gate
	now       func() time.Time
	hashCost  int
}

func NewService(repo Repository, publisher Publisher, gate *agecheck.Gate) *Service {
	if gate == nil {
		gate = agecheck.NewGate()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		gate:      gate,
		now:       time.Now,
		hashCost:  bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	name := strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return User{}, fmt.Errorf("%w: name must be 2-100 characters", ErrInvalidInput)
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return User{}, err
	}
	if n := len(in.Password); n < 8 || n > 32 {
		return User{}, fmt.Errorf("%w: password must be 8-32 characters", ErrInvalidInput)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return User{}, fmt.Errorf("could not hash password: %w", err)
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Role:         RoleUser,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}

	s.publish(ctx, UserRegistered{UserID: u.ID, Email: u.Email, Name: u.Name, Timestamp: now})
	return u, nil
}

// Login no distingue "no existe" de "password incorrecto".
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("could not verify password: %w", err)
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetCallerByID es lo que consume el vote intake para el gate.
func (s *Service) GetCallerByID(ctx context.Context, id string) (agecheck.Caller, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return agecheck.Caller{}, err
	}
	return agecheck.Caller{ID: u.ID, Birthdate: u.Birthdate}, nil
}

// SetBirthdate guarda la fecha y emite AgeVerified. No evalúa ningún gate:
// eso pasa recién al votar.
func (s *Service) SetBirthdate(ctx context.Context, id string, birthdate agecheck.Date) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrNotFound
	}
	if !birthdate.Valid() {
		return User{}, fmt.Errorf("%w: birthdate %s", agecheck.ErrInvalidDate, birthdate)
	}

	age, err := agecheck.ComputeAge(birthdate, s.gate.Today())
	if err != nil {
		return User{}, err
	}
	if age > maxAge {
		return User{}, fmt.Errorf("%w: birthdate %s is too far in the past", agecheck.ErrInvalidDate, birthdate)
	}

	now := s.now()
	if err := s.repo.SetBirthdate(ctx, id, birthdate, now); err != nil {
		return User{}, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	s.publish(ctx, AgeVerified{UserID: id, Age: age, Timestamp: now})
	return u, nil
}

func (s *Service) publish(ctx context.Context, e notifier.Event) {
	if s.publisher == nil {
		return
	}
	// las fallas ya quedan logueadas por el notifier
	_ = s.publisher.Publish(ctx, e)
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return strings.ToLower(addr.Address), nil
}
