package votes

import (
	"context"

	"votes-api/internal/domain/agecheck"
	"votes-api/internal/platform/notifier"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks votes-api/internal/domain/votes IdentityLookup,PolicyResolver,Publisher,Repository

// IdentityLookup devuelve la identidad mínima que necesita el gate.
type IdentityLookup interface {
	GetCallerByID(ctx context.Context, id string) (agecheck.Caller, error)
}

// PolicyResolver decide la edad mínima por poll.
type PolicyResolver interface {
	PolicyFor(ctx context.Context, pollID string) (agecheck.Policy, error)
}

type Publisher interface {
	Publish(ctx context.Context, e notifier.Event) notifier.Report
}

// DenialObserver recibe el código de cada denegación del gate (métricas).
type DenialObserver interface {
	ObserveDenial(reason string)
}

// DefaultPolicies aplica la misma política a todos los polls.
type DefaultPolicies agecheck.Policy

func (p DefaultPolicies) PolicyFor(ctx context.Context, pollID string) (agecheck.Policy, error) {
	return agecheck.Policy(p), nil
}
