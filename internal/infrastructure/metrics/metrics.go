// Package metrics exposes framework activity to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ElMonstro/Lean/internal/application/port"
)

const namespace = "lean"

// Recorder implements port.Metrics on top of a prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	insights prometheus.Counter
	targets  *prometheus.CounterVec
	batches  *prometheus.CounterVec
	changes  *prometheus.CounterVec
}

// New registers the framework collectors on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		insights: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_received_total",
			Help:      "Valid insights handed to the portfolio construction model.",
		}),
		targets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "portfolio_targets_created_total",
			Help:      "Portfolio targets returned by the portfolio construction model.",
		}, []string{"model"}),
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "target_batches_total",
			Help:      "CreateTargets invocations.",
		}, []string{"model"}),
		changes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "security_changes_total",
			Help:      "Securities added to or removed from the universe.",
		}, []string{"kind"}),
	}
}

func (r *Recorder) InsightsReceived(n int) {
	r.insights.Add(float64(n))
}

func (r *Recorder) TargetsCreated(model string, n int) {
	r.batches.WithLabelValues(model).Inc()
	r.targets.WithLabelValues(model).Add(float64(n))
}

func (r *Recorder) SecuritiesChanged(added, removed int) {
	r.changes.WithLabelValues("added").Add(float64(added))
	r.changes.WithLabelValues("removed").Add(float64(removed))
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

var _ port.Metrics = (*Recorder)(nil)
