package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los collectors del servicio. Todos los métodos aceptan
// receiver nil para que tests y wiring parcial no tengan que chequear.
type Metrics struct {
	EventsPublished    *prometheus.CounterVec
	SubscriberFailures *prometheus.CounterVec
	AgeGateDenials     *prometheus.CounterVec
	VotesCast          prometheus.Counter
	VotesChanged       prometheus.Counter
	HTTPDuration       *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registra en reg. Con nil usa un registry nuevo (no el global).
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "votes_events_published_total",
			Help: "Domain events published through the notifier, by kind",
		}, []string{"kind"}),
		SubscriberFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "votes_subscriber_failures_total",
			Help: "Subscriber invocations that returned an error or panicked, by kind",
		}, []string{"kind"}),
		AgeGateDenials: f.NewCounterVec(prometheus.CounterOpts{
			Name: "votes_age_gate_denials_total",
			Help: "Vote attempts denied by the age gate, by reason code",
		}, []string{"reason"}),
		VotesCast: f.NewCounter(prometheus.CounterOpts{
			Name: "votes_cast_total",
			Help: "Votes successfully cast",
		}),
		VotesChanged: f.NewCounter(prometheus.CounterOpts{
			Name: "votes_changed_total",
			Help: "Votes whose choice was changed",
		}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "votes_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route pattern and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
		gatherer: reg,
	}
}

func (m *Metrics) IncEventPublished(kind string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(kind).Inc()
}

func (m *Metrics) AddSubscriberFailures(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SubscriberFailures.WithLabelValues(kind).Add(float64(n))
}

// ObserveDenial la usa el vote intake cuando el gate niega.
func (m *Metrics) ObserveDenial(reason string) {
	if m == nil {
		return
	}
	m.AgeGateDenials.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncVoteCast() {
	if m == nil {
		return
	}
	m.VotesCast.Inc()
}

func (m *Metrics) IncVoteChanged() {
	if m == nil {
		return
	}
	m.VotesChanged.Inc()
}

// ObserveHTTP registra la duración de un request. Call with time.Now() at the start.
func (m *Metrics) ObserveHTTP(method, route, status string, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}

// Handler expone el registry propio en /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
