package policyfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"votes-api/internal/domain/agecheck"

	"gopkg.in/yaml.v3"
)

var ErrInvalidPolicy = errors.New("invalid age policy")

// File es el formato YAML:
//
//	default:
//	  min_age: 18
//	polls:
//	  kids-poll:
//	    min_age: 13
type File struct {
	Default *agecheck.Policy           `yaml:"default"`
	Polls   map[string]agecheck.Policy `yaml:"polls"`
}

// Resolver resuelve la política de edad por poll; sin override usa la default.
type Resolver struct {
	def    agecheck.Policy
	byPoll map[string]agecheck.Policy
}

func NewResolver(def agecheck.Policy, overrides map[string]agecheck.Policy) *Resolver {
	byPoll := make(map[string]agecheck.Policy, len(overrides))
	for id, p := range overrides {
		byPoll[strings.TrimSpace(id)] = p
	}
	return &Resolver{def: def, byPoll: byPoll}
}

// Load lee path. Si path está vacío devuelve un resolver solo con fallback.
func Load(path string, fallback agecheck.Policy) (*Resolver, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return NewResolver(fallback, nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read age policy file: %w", err)
	}
	return Parse(raw, fallback)
}

func Parse(raw []byte, fallback agecheck.Policy) (*Resolver, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}

	def := fallback
	if f.Default != nil {
		def = *f.Default
	}
	if err := validate("default", def); err != nil {
		return nil, err
	}
	for id, p := range f.Polls {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: empty poll id", ErrInvalidPolicy)
		}
		if err := validate(id, p); err != nil {
			return nil, err
		}
	}

	return NewResolver(def, f.Polls), nil
}

func (r *Resolver) PolicyFor(ctx context.Context, pollID string) (agecheck.Policy, error) {
	if p, ok := r.byPoll[strings.TrimSpace(pollID)]; ok {
		return p, nil
	}
	return r.def, nil
}

// Overrides cuántos polls tienen política propia.
func (r *Resolver) Overrides() int { return len(r.byPoll) }

func validate(name string, p agecheck.Policy) error {
	if p.MinAge < 0 || p.MinAge > 150 {
		return fmt.Errorf("%w: %s min_age=%d", ErrInvalidPolicy, name, p.MinAge)
	}
	return nil
}
