package votes_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"votes-api/internal/domain/agecheck"
	"votes-api/internal/domain/users"
	"votes-api/internal/domain/votes"
	"votes-api/internal/domain/votes/mocks"
	"votes-api/internal/platform/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var today = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite

	ctrl       *gomock.Controller
	repo       *mocks.MockRepository
	identities *mocks.MockIdentityLookup
	policies   *mocks.MockPolicyResolver
	publisher  *mocks.MockPublisher

	svc *votes.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = mocks.NewMockRepository(s.ctrl)
	s.identities = mocks.NewMockIdentityLookup(s.ctrl)
	s.policies = mocks.NewMockPolicyResolver(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	clock := func() time.Time { return today }
	s.svc = votes.NewService(s.repo, s.identities, s.publisher,
		votes.WithPolicies(s.policies),
		votes.WithGate(agecheck.NewGateAt(clock, time.UTC)),
		votes.WithClock(clock),
	)
}

func bornOn(y int, m time.Month, d int) *agecheck.Date {
	bd := agecheck.MustDate(y, m, d)
	return &bd
}

func (s *ServiceSuite) expectCaller(id string, birthdate *agecheck.Date) {
	s.identities.EXPECT().
		GetCallerByID(gomock.Any(), id).
		Return(agecheck.Caller{ID: id, Birthdate: birthdate}, nil)
}

func (s *ServiceSuite) expectPolicy(pollID string, minAge int) {
	s.policies.EXPECT().
		PolicyFor(gomock.Any(), pollID).
		Return(agecheck.Policy{MinAge: minAge}, nil)
}

func (s *ServiceSuite) TestCastVote_PersistsThenPublishes() {
	s.expectCaller("u-1", bornOn(2008, time.March, 15))
	s.expectPolicy("poll-1", 18)

	var stored votes.Vote
	insert := s.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, v votes.Vote) error {
			stored = v
			return nil
		})
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.AssignableToTypeOf(votes.VoteCast{})).
		After(insert).
		Return(notifier.Report{Kind: votes.KindVoteCast, Delivered: 1})

	ev, err := s.svc.CastVote(context.Background(), "u-1", votes.CastInput{PollID: "poll-1", Choice: " yes "})
	s.Require().NoError(err)

	s.Equal(stored.ID, ev.VoteID)
	s.Equal("u-1", ev.UserID)
	s.Equal("poll-1", ev.PollID)
	s.Equal("yes", ev.Choice)
	s.Equal(today, ev.Timestamp)
	s.Equal("yes", stored.Choice)
}

func (s *ServiceSuite) TestCastVote_PersistenceFailure_NoEvent() {
	s.expectCaller("u-1", bornOn(1990, time.January, 1))
	s.expectPolicy("poll-1", 18)
	s.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.svc.CastVote(context.Background(), "u-1", votes.CastInput{PollID: "poll-1", Choice: "yes"})
	s.ErrorIs(err, votes.ErrPersistenceUnavailable)
}

func (s *ServiceSuite) TestCastVote_CancelledContext_NoEvent() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.expectCaller("u-1", bornOn(1990, time.January, 1))
	s.expectPolicy("poll-1", 18)
	s.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ votes.Vote) error { return ctx.Err() })
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.svc.CastVote(ctx, "u-1", votes.CastInput{PollID: "poll-1", Choice: "yes"})
	s.ErrorIs(err, votes.ErrPersistenceUnavailable)
	s.ErrorIs(err, context.Canceled)
}

func (s *ServiceSuite) TestCastVote_BirthdateMissing() {
	s.expectCaller("u-1", nil)
	s.expectPolicy("poll-1", 18)

	_, err := s.svc.CastVote(context.Background(), "u-1", votes.CastInput{PollID: "poll-1", Choice: "yes"})

	var denied *votes.AgeRestrictedError
	s.Require().ErrorAs(err, &denied)
	s.Equal(agecheck.ReasonBirthdateMissing, denied.Denial.Reason)
	s.ErrorIs(err, votes.ErrAgeRestricted)
}

func (s *ServiceSuite) TestCastVote_BelowMinimumAge() {
	s.expectCaller("u-1", bornOn(2008, time.March, 16))
	s.expectPolicy("poll-1", 18)

	_, err := s.svc.CastVote(context.Background(), "u-1", votes.CastInput{PollID: "poll-1", Choice: "yes"})

	var denied *votes.AgeRestrictedError
	s.Require().ErrorAs(err, &denied)
	s.Equal(agecheck.Denial{Reason: agecheck.ReasonBelowMinimumAge, RequiredAge: 18, ActualAge: 17}, denied.Denial)
}

func (s *ServiceSuite) TestCastVote_PollPolicyOverride() {
	s.expectCaller("u-1", bornOn(2010, time.January, 1))
	s.expectPolicy("kids-poll", 13)
	s.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(notifier.Report{})

	_, err := s.svc.CastVote(context.Background(), "u-1", votes.CastInput{PollID: "kids-poll", Choice: "blue"})
	s.NoError(err)
}

func (s *ServiceSuite) TestCastVote_UnknownCaller() {
	s.identities.EXPECT().GetCallerByID(gomock.Any(), "ghost").Return(agecheck.Caller{}, users.ErrNotFound)

	_, err := s.svc.CastVote(context.Background(), "ghost", votes.CastInput{PollID: "poll-1", Choice: "yes"})
	s.ErrorIs(err, votes.ErrUnauthenticated)
}

func (s *ServiceSuite) TestCastVote_NoCaller_NeverReachesGate() {
	_, err := s.svc.CastVote(context.Background(), "  ", votes.CastInput{PollID: "poll-1", Choice: "yes"})
	s.ErrorIs(err, votes.ErrUnauthenticated)
}

func (s *ServiceSuite) TestCastVote_InvalidInput() {
	_, err := s.svc.CastVote(context.Background(), "u-1", votes.CastInput{PollID: "", Choice: "yes"})
	s.ErrorIs(err, votes.ErrInvalidInput)

	_, err = s.svc.CastVote(context.Background(), "u-1", votes.CastInput{PollID: "poll-1", Choice: ""})
	s.ErrorIs(err, votes.ErrInvalidInput)
}

func (s *ServiceSuite) TestUpdateVote_PublishesBothChoices() {
	s.repo.EXPECT().GetByID(gomock.Any(), "v-1").
		Return(votes.Vote{ID: "v-1", UserID: "u-1", PollID: "poll-1", Choice: "yes"}, nil)
	s.expectCaller("u-1", bornOn(1990, time.January, 1))
	s.expectPolicy("poll-1", 18)
	s.repo.EXPECT().UpdateChoice(gomock.Any(), "v-1", "u-1", "no", today).Return("yes", nil)

	var published notifier.Event
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e notifier.Event) notifier.Report {
			published = e
			return notifier.Report{Kind: e.Kind(), Delivered: 1}
		})

	ev, err := s.svc.UpdateVote(context.Background(), "u-1", "v-1", "no")
	s.Require().NoError(err)
	s.Equal("yes", ev.PreviousChoice)
	s.Equal("no", ev.NewChoice)
	s.Equal(ev, published)
}

func (s *ServiceSuite) TestUpdateVote_NotOwner_ForbiddenAndNoEvent() {
	s.repo.EXPECT().GetByID(gomock.Any(), "v-1").
		Return(votes.Vote{ID: "v-1", UserID: "owner", PollID: "poll-1", Choice: "yes"}, nil)
	s.expectCaller("intruder", bornOn(1990, time.January, 1))
	s.expectPolicy("poll-1", 18)
	s.repo.EXPECT().UpdateChoice(gomock.Any(), "v-1", "intruder", "no", gomock.Any()).
		Return("", votes.ErrForbidden)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.svc.UpdateVote(context.Background(), "intruder", "v-1", "no")
	s.ErrorIs(err, votes.ErrForbidden)
}

func (s *ServiceSuite) TestUpdateVote_NotFound() {
	s.repo.EXPECT().GetByID(gomock.Any(), "missing").Return(votes.Vote{}, votes.ErrNotFound)

	_, err := s.svc.UpdateVote(context.Background(), "u-1", "missing", "no")
	s.ErrorIs(err, votes.ErrNotFound)
}

func (s *ServiceSuite) TestUpdateVote_SameChoice_NoEvent() {
	s.repo.EXPECT().GetByID(gomock.Any(), "v-1").
		Return(votes.Vote{ID: "v-1", UserID: "u-1", PollID: "poll-1", Choice: "yes"}, nil)
	s.expectCaller("u-1", bornOn(1990, time.January, 1))
	s.expectPolicy("poll-1", 18)
	s.repo.EXPECT().UpdateChoice(gomock.Any(), "v-1", "u-1", "yes", gomock.Any()).Return("yes", nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	ev, err := s.svc.UpdateVote(context.Background(), "u-1", "v-1", "yes")
	s.Require().NoError(err)
	s.Equal("yes", ev.PreviousChoice)
}

func (s *ServiceSuite) TestUpdateVote_GateRunsBeforeStoreWrite() {
	s.repo.EXPECT().GetByID(gomock.Any(), "v-1").
		Return(votes.Vote{ID: "v-1", UserID: "u-1", PollID: "poll-1", Choice: "yes"}, nil)
	s.expectCaller("u-1", nil)
	s.expectPolicy("poll-1", 18)
	s.repo.EXPECT().UpdateChoice(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := s.svc.UpdateVote(context.Background(), "u-1", "v-1", "no")
	s.ErrorIs(err, votes.ErrAgeRestricted)
}

func (s *ServiceSuite) TestGetVote_OwnerOnly() {
	v := votes.Vote{ID: "v-1", UserID: "u-1", PollID: "poll-1", Choice: "yes"}
	s.repo.EXPECT().GetByID(gomock.Any(), "v-1").Return(v, nil).Times(2)

	got, err := s.svc.GetVote(context.Background(), "u-1", "v-1")
	s.Require().NoError(err)
	s.Equal(v, got)

	_, err = s.svc.GetVote(context.Background(), "u-2", "v-1")
	s.ErrorIs(err, votes.ErrForbidden)
}

func (s *ServiceSuite) TestListMine_StoreFailure() {
	s.repo.EXPECT().ListByUser(gomock.Any(), "u-1").Return(nil, errors.New("timeout"))

	_, err := s.svc.ListMine(context.Background(), "u-1")
	s.ErrorIs(err, votes.ErrPersistenceUnavailable)
}

// El notifier real: una falla de subscriber no rompe el voto.
func TestCastVote_SubscriberFailureDoesNotFailRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	identities := mocks.NewMockIdentityLookup(ctrl)

	bd := agecheck.MustDate(1990, time.January, 1)
	identities.EXPECT().GetCallerByID(gomock.Any(), "u-1").Return(agecheck.Caller{ID: "u-1", Birthdate: &bd}, nil)
	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	n := notifier.New(nil)
	var seen []string
	n.Subscribe(votes.KindVoteCast, "broken", func(ctx context.Context, e notifier.Event) error {
		seen = append(seen, "broken")
		return errors.New("push provider down")
	})
	n.Subscribe(votes.KindVoteCast, "audit", func(ctx context.Context, e notifier.Event) error {
		seen = append(seen, "audit")
		return nil
	})

	svc := votes.NewService(repo, identities, n)
	ev, err := svc.CastVote(context.Background(), "u-1", votes.CastInput{PollID: "poll-1", Choice: "yes"})

	require.NoError(t, err)
	assert.NotEmpty(t, ev.VoteID)
	assert.Equal(t, []string{"broken", "audit"}, seen)
}
