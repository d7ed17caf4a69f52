package users

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"votes-api/internal/domain/agecheck"
	"votes-api/internal/platform/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu   sync.Mutex
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *testRepo) SetBirthdate(ctx context.Context, id string, bd agecheck.Date, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.Birthdate = &bd
	u.UpdatedAt = updatedAt
	r.byID[id] = u
	return nil
}

type recordingPublisher struct {
	events []notifier.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e notifier.Event) notifier.Report {
	p.events = append(p.events, e)
	return notifier.Report{Kind: e.Kind(), Delivered: 1}
}

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *testRepo, *recordingPublisher) {
	repo := newTestRepo()
	pub := &recordingPublisher{}
	gate := agecheck.NewGateAt(func() time.Time { return fixedNow }, time.UTC)

	svc := NewService(repo, pub, gate)
	svc.now = func() time.Time { return fixedNow }
	svc.hashCost = bcrypt.MinCost
	return svc, repo, pub
}

func register(t *testing.T, svc *Service) User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ana Pérez",
		Email:    "Ana@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return u
}

func TestRegister_HashesPasswordAndPublishes(t *testing.T) {
	svc, _, pub := newTestService()

	u := register(t, svc)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)
	assert.Nil(t, u.Birthdate)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	require.Len(t, pub.events, 1)
	ev, ok := pub.events[0].(UserRegistered)
	require.True(t, ok)
	assert.Equal(t, u.ID, ev.UserID)
	assert.Equal(t, fixedNow, ev.Timestamp)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, pub := newTestService()

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"short name", RegisterInput{Name: "A", Email: "a@example.com", Password: "password1"}},
		{"bad email", RegisterInput{Name: "Ana", Email: "not-an-email", Password: "password1"}},
		{"display name email", RegisterInput{Name: "Ana", Email: "Ana <a@example.com>", Password: "password1"}},
		{"short password", RegisterInput{Name: "Ana", Email: "a@example.com", Password: "short"}},
		{"long password", RegisterInput{Name: "Ana", Email: "a@example.com", Password: "0123456789012345678901234567890123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Empty(t, pub.events)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Otra Ana",
		Email:    "ana@example.com",
		Password: "another-pass",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService()
	u := register(t, svc)

	got, err := svc.Login(context.Background(), "ANA@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(context.Background(), "ana@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetCallerByID(t *testing.T) {
	svc, _, _ := newTestService()
	u := register(t, svc)

	c, err := svc.GetCallerByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, c.ID)
	assert.Nil(t, c.Birthdate)

	_, err = svc.GetCallerByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetBirthdate_StoresAndPublishesAge(t *testing.T) {
	svc, _, pub := newTestService()
	u := register(t, svc)
	pub.events = nil

	updated, err := svc.SetBirthdate(context.Background(), u.ID, agecheck.MustDate(2008, time.March, 15))
	require.NoError(t, err)
	require.NotNil(t, updated.Birthdate)
	assert.Equal(t, "2008-03-15", updated.Birthdate.String())

	require.Len(t, pub.events, 1)
	ev, ok := pub.events[0].(AgeVerified)
	require.True(t, ok)
	assert.Equal(t, 18, ev.Age)

	c, err := svc.GetCallerByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, c.Birthdate)
}

func TestSetBirthdate_Rejections(t *testing.T) {
	svc, _, pub := newTestService()
	u := register(t, svc)
	pub.events = nil

	_, err := svc.SetBirthdate(context.Background(), u.ID, agecheck.MustDate(2026, time.March, 16))
	assert.ErrorIs(t, err, agecheck.ErrInvalidDate, "future birthdate")

	_, err = svc.SetBirthdate(context.Background(), u.ID, agecheck.MustDate(1800, time.January, 1))
	assert.ErrorIs(t, err, agecheck.ErrInvalidDate, "too old")

	_, err = svc.SetBirthdate(context.Background(), u.ID, agecheck.Date{Year: 2001, Month: time.February, Day: 29})
	assert.ErrorIs(t, err, agecheck.ErrInvalidDate, "not a calendar date")

	_, err = svc.SetBirthdate(context.Background(), "missing", agecheck.MustDate(2000, time.January, 1))
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, pub.events)
}

func TestRegister_RepoFailure(t *testing.T) {
	svc, _, pub := newTestService()
	svc.repo = failingRepo{testRepo: newTestRepo(), err: errors.New("db down")}

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "a@example.com", Password: "password1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, pub.events)
}

type failingRepo struct {
	*testRepo
	err error
}

func (r failingRepo) Create(ctx context.Context, u User) error { return r.err }
