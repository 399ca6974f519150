// Package metrics instruments an rdf.Repository with Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/quadsql/internal/rdf"
)

const namespace = "quadsql"

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the collectors shared by every instrumented repository.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	statements *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Store operations by dialect, operation and status",
			},
			[]string{"dialect", "op", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Store operation latency, including time spent consuming scans",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"dialect", "op"},
		),
		statements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statements_total",
				Help:      "Statements written, deleted or read",
			},
			[]string{"dialect", "op"},
		),
	}

	if reg != nil {
		var err error
		if m.operations, err = register(reg, m.operations); err != nil {
			return nil, err
		}
		if m.duration, err = register(reg, m.duration); err != nil {
			return nil, err
		}
		if m.statements, err = register(reg, m.statements); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// register registers c, or returns the collector already registered under
// the same descriptor.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Instrument wraps repo so that every call is counted and timed under the
// given dialect label.
func (m *Metrics) Instrument(repo rdf.Repository, dialect string) *Repository {
	return &Repository{next: repo, metrics: m, dialect: dialect}
}

func (m *Metrics) observe(dialect, op string, start time.Time, n int, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.operations.WithLabelValues(dialect, op, status).Inc()
	m.duration.WithLabelValues(dialect, op).Observe(time.Since(start).Seconds())
	if n > 0 {
		m.statements.WithLabelValues(dialect, op).Add(float64(n))
	}
}

// Repository is an instrumented rdf.Repository.
type Repository struct {
	next    rdf.Repository
	metrics *Metrics
	dialect string
}

var _ rdf.Repository = (*Repository)(nil)

// Unwrap returns the instrumented repository.
func (r *Repository) Unwrap() rdf.Repository {
	return r.next
}

func (r *Repository) Insert(ctx context.Context, statements ...rdf.Statement) error {
	start := time.Now()
	err := r.next.Insert(ctx, statements...)
	n := len(statements)
	if err != nil {
		n = 0
	}
	r.metrics.observe(r.dialect, "insert", start, n, err)
	return err
}

func (r *Repository) Delete(ctx context.Context, statements ...rdf.Statement) error {
	start := time.Now()
	err := r.next.Delete(ctx, statements...)
	n := len(statements)
	if err != nil {
		n = 0
	}
	r.metrics.observe(r.dialect, "delete", start, n, err)
	return err
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := r.next.Count(ctx)
	r.metrics.observe(r.dialect, "count", start, 0, err)
	return n, err
}

func (r *Repository) Each(ctx context.Context) iter.Seq2[rdf.Statement, error] {
	return r.scan("each", r.next.Each(ctx))
}

func (r *Repository) Query(ctx context.Context, pattern rdf.Pattern) iter.Seq2[rdf.Statement, error] {
	return r.scan("query", r.next.Query(ctx, pattern))
}

// scan observes a sequence once the consumer stops iterating.
func (r *Repository) scan(op string, seq iter.Seq2[rdf.Statement, error]) iter.Seq2[rdf.Statement, error] {
	return func(yield func(rdf.Statement, error) bool) {
		start := time.Now()
		var (
			n   int
			err error
		)
		defer func() { r.metrics.observe(r.dialect, op, start, n, err) }()

		for st, e := range seq {
			if e != nil {
				err = e
				yield(rdf.Statement{}, e)
				return
			}
			n++
			if !yield(st, nil) {
				return
			}
		}
	}
}
