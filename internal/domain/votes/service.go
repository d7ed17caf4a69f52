package votes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"votes-api/internal/domain/agecheck"
	"votes-api/internal/domain/users"
	"votes-api/internal/platform/logger"
	"votes-api/internal/platform/notifier"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxChoiceLen = 255

type Service struct {
	repo       Repository
	identities IdentityLookup
	policies   PolicyResolver
	gate       *agecheck.Gate
	publisher  Publisher
	denials    DenialObserver

	log    logger.Logger
	tracer trace.Tracer
	now    func() time.Time
}

type Option func(*Service)

func WithPolicies(p PolicyResolver) Option {
	return func(s *Service) {
		if p != nil {
			s.policies = p
		}
	}
}

func WithGate(g *agecheck.Gate) Option {
	return func(s *Service) {
		if g != nil {
			s.gate = g
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithDenialObserver(o DenialObserver) Option {
	return func(s *Service) {
		s.denials = o
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo Repository, identities IdentityLookup, publisher Publisher, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		identities: identities,
		policies:   DefaultPolicies(agecheck.DefaultPolicy),
		gate:       agecheck.NewGate(),
		publisher:  publisher,
		log:        logger.Nop(),
		tracer:     otel.Tracer("votes-api/internal/domain/votes"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CastVote: gate -> persist -> publish. Si falla el insert no se publica nada.
func (s *Service) CastVote(ctx context.Context, callerID string, in CastInput) (VoteCast, error) {
	ctx, span := s.tracer.Start(ctx, "votes.CastVote")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return VoteCast{}, ErrUnauthenticated
	}

	pollID := strings.TrimSpace(in.PollID)
	choice := strings.TrimSpace(in.Choice)
	if err := validate(pollID, choice); err != nil {
		return VoteCast{}, err
	}
	span.SetAttributes(attribute.String("poll.id", pollID))

	if err := s.authorize(ctx, callerID, pollID); err != nil {
		return VoteCast{}, s.fail(span, err)
	}

	now := s.now()
	v := Vote{
		ID:        uuid.NewString(),
		UserID:    callerID,
		PollID:    pollID,
		Choice:    choice,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, v); err != nil {
		s.log.Error("vote insert failed", map[string]any{
			"user_id": callerID,
			"poll_id": pollID,
			"error":   err,
		})
		return VoteCast{}, s.fail(span, fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err))
	}
	span.SetAttributes(attribute.String("vote.id", v.ID))

	ev := VoteCast{
		UserID:    callerID,
		VoteID:    v.ID,
		PollID:    pollID,
		Choice:    choice,
		Timestamp: now,
	}
	s.publish(ctx, ev)
	return ev, nil
}

// UpdateVote delega el ownership al store (UpdateChoice). Si la elección no
// cambia se guarda igual pero no se publica VoteChanged.
func (s *Service) UpdateVote(ctx context.Context, callerID, voteID, newChoice string) (VoteChanged, error) {
	ctx, span := s.tracer.Start(ctx, "votes.UpdateVote")
	defer span.End()

	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return VoteChanged{}, ErrUnauthenticated
	}
	voteID = strings.TrimSpace(voteID)
	if voteID == "" {
		return VoteChanged{}, ErrNotFound
	}
	newChoice = strings.TrimSpace(newChoice)
	if err := validateChoice(newChoice); err != nil {
		return VoteChanged{}, err
	}
	span.SetAttributes(attribute.String("vote.id", voteID))

	current, err := s.repo.GetByID(ctx, voteID)
	if err != nil {
		return VoteChanged{}, s.fail(span, s.storeErr("vote lookup failed", err))
	}

	if err := s.authorize(ctx, callerID, current.PollID); err != nil {
		return VoteChanged{}, s.fail(span, err)
	}

	now := s.now()
	previous, err := s.repo.UpdateChoice(ctx, voteID, callerID, newChoice, now)
	if err != nil {
		return VoteChanged{}, s.fail(span, s.storeErr("vote update failed", err))
	}

	ev := VoteChanged{
		UserID:         callerID,
		VoteID:         voteID,
		PollID:         current.PollID,
		PreviousChoice: previous,
		NewChoice:      newChoice,
		Timestamp:      now,
	}
	if previous == newChoice {
		s.log.Debug("vote choice unchanged", map[string]any{"vote_id": voteID})
		return ev, nil
	}
	s.publish(ctx, ev)
	return ev, nil
}

// GetVote solo para el dueño del voto.
func (s *Service) GetVote(ctx context.Context, callerID, voteID string) (Vote, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Vote{}, ErrUnauthenticated
	}
	v, err := s.repo.GetByID(ctx, strings.TrimSpace(voteID))
	if err != nil {
		return Vote{}, s.storeErr("vote lookup failed", err)
	}
	if v.UserID != callerID {
		return Vote{}, ErrForbidden
	}
	return v, nil
}

func (s *Service) ListMine(ctx context.Context, callerID string) ([]Vote, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return nil, ErrUnauthenticated
	}
	items, err := s.repo.ListByUser(ctx, callerID)
	if err != nil {
		return nil, s.storeErr("vote list failed", err)
	}
	return items, nil
}

// authorize carga la identidad y corre el gate con la política del poll.
func (s *Service) authorize(ctx context.Context, callerID, pollID string) error {
	caller, err := s.identities.GetCallerByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return ErrUnauthenticated
		}
		s.log.Error("identity lookup failed", map[string]any{"user_id": callerID, "error": err})
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}

	policy, err := s.policies.PolicyFor(ctx, pollID)
	if err != nil {
		return fmt.Errorf("resolve age policy: %w", err)
	}

	res := s.gate.Evaluate(caller, policy)
	if res.Allowed() {
		return nil
	}

	// denegación esperada: no es un error del sistema
	if s.denials != nil {
		s.denials.ObserveDenial(string(res.Denial.Reason))
	}
	s.log.Info("vote denied by age gate", map[string]any{
		"user_id": callerID,
		"poll_id": pollID,
		"reason":  string(res.Denial.Reason),
	})
	return &AgeRestrictedError{Denial: *res.Denial}
}

// storeErr deja pasar NotFound/Forbidden y convierte el resto en PersistenceUnavailable.
func (s *Service) storeErr(msg string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
		return err
	}
	s.log.Error(msg, map[string]any{"error": err})
	return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
}

func (s *Service) publish(ctx context.Context, e notifier.Event) {
	if s.publisher == nil {
		return
	}
	// las fallas de subscribers no afectan al request; el notifier ya las loguea
	_ = s.publisher.Publish(ctx, e)
}

func (s *Service) fail(span trace.Span, err error) error {
	var denied *AgeRestrictedError
	if errors.As(err, &denied) {
		span.SetAttributes(attribute.String("age.denial", string(denied.Denial.Reason)))
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func validate(pollID, choice string) error {
	if pollID == "" {
		return fmt.Errorf("%w: pollId is required", ErrInvalidInput)
	}
	return validateChoice(choice)
}

func validateChoice(choice string) error {
	if choice == "" {
		return fmt.Errorf("%w: choice is required", ErrInvalidInput)
	}
	if len(choice) > maxChoiceLen {
		return fmt.Errorf("%w: choice is too long", ErrInvalidInput)
	}
	return nil
}
