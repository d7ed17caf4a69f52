package votes

import (
	"errors"
	"fmt"

	"votes-api/internal/domain/agecheck"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrNotFound               = errors.New("vote not found")
	ErrForbidden              = errors.New("vote belongs to another user")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrAgeRestricted          = errors.New("age restricted")
)

// AgeRestrictedError lleva la denegación del gate hasta el handler.
type AgeRestrictedError struct {
	Denial agecheck.Denial
}

func (e *AgeRestrictedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAgeRestricted, e.Denial)
}

func (e *AgeRestrictedError) Unwrap() error { return ErrAgeRestricted }
