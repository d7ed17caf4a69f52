package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	mem "votes-api/internal/adapters/storage/memory"
	pg "votes-api/internal/adapters/storage/postgres"
	"votes-api/internal/domain/agecheck"
	"votes-api/internal/domain/users"
	"votes-api/internal/domain/votes"
	"votes-api/internal/middleware"
	"votes-api/internal/platform/logger"
	"votes-api/internal/platform/metrics"
	"votes-api/internal/platform/notifier"
	"votes-api/internal/ports/auth"

	_ "votes-api/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// HealthCheck lo aportan las dependencias opcionales (DB, Redis).
type HealthCheck func(ctx context.Context) error

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev: X-Debug-User-ID)
	TokenIssuer  auth.TokenIssuer  // puede ser nil (login/register sin token)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Si nil se crea uno sin subscribers.
	Notifier *notifier.Notifier

	Logger  logger.Logger
	Metrics *metrics.Metrics

	// Política por poll. Si nil se usa MinAge para todos.
	Policies votes.PolicyResolver
	MinAge   int

	// Reloj del gate; nil = time.Now.
	Now func() time.Time

	HealthChecks map[string]HealthCheck
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	n := opts.Notifier
	if n == nil {
		n = notifier.New(log)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log, opts.Metrics))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", healthHandler(opts.HealthChecks))
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		userRepo users.Repository
		voteRepo votes.Repository
	)

	if opts.DB != nil {
		userRepo = pg.NewUsersRepo(opts.DB)
		voteRepo = pg.NewVotesRepo(opts.DB)
	} else {
		userRepo = mem.NewUserRepo()
		voteRepo = mem.NewVoteRepo()
	}

	gate := agecheck.NewGateAt(opts.Now, time.UTC)

	policies := opts.Policies
	if policies == nil {
		minAge := opts.MinAge
		if minAge <= 0 {
			minAge = agecheck.DefaultPolicy.MinAge
		}
		policies = votes.DefaultPolicies{MinAge: minAge}
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo, n, gate)
	votesSvc := votes.NewService(voteRepo, usersSvc, n,
		votes.WithPolicies(policies),
		votes.WithGate(gate),
		votes.WithLogger(log.With(map[string]any{"component": "votes"})),
		votes.WithDenialObserver(opts.Metrics),
	)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, opts.TokenIssuer)
	votes.RegisterRoutes(r, votesSvc)

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for name, check := range checks {
			if err := check(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(name + " unavailable"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
