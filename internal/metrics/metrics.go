package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service's Prometheus collectors.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	quizServed      prometheus.Counter
	quizExhausted   prometheus.Counter
	mutations       *prometheus.CounterVec
}

// New registers collectors on reg. Pass prometheus.DefaultRegisterer in production
// and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trivia",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		quizServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "quiz_questions_served_total",
			Help:      "Quiz questions handed out.",
		}),
		quizExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "quiz_exhausted_total",
			Help:      "Quiz requests with no unseen question left.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trivia",
			Name:      "question_mutations_total",
			Help:      "Question inserts and deletes.",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.requestDuration, m.quizServed, m.quizExhausted, m.mutations)
	}
	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// QuizServed counts a quiz response; served is false when the pool was exhausted.
func (m *Metrics) QuizServed(served bool) {
	if m == nil {
		return
	}
	if served {
		m.quizServed.Inc()
		return
	}
	m.quizExhausted.Inc()
}

// QuestionMutated counts a successful insert or delete.
func (m *Metrics) QuestionMutated(op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op).Inc()
}
