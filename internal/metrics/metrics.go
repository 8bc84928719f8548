// Package metrics counts applied guild changes and pushes them to a
// Prometheus Pushgateway at the end of a run.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/schaermu/guildsync/internal/reconcile"
)

const namespace = "guildsync"

// Recorder is a reconcile.Listener backed by its own registry, so a one
// shot run only pushes what it recorded.
type Recorder struct {
	registry *prometheus.Registry
	changes  *prometheus.CounterVec
	planned  *prometheus.GaugeVec
	lastRun  prometheus.Gauge
	duration prometheus.Gauge
}

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "changes_total",
			Help:      "Executed guild changes by action, entity and result.",
		}, []string{"action", "entity", "result"}),
		planned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "planned_changes",
			Help:      "Changes in the last computed plan by action.",
		}, []string{"action"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the last run.",
		}),
	}
	r.registry.MustRegister(r.changes, r.planned, r.lastRun, r.duration)
	return r
}

// Registry exposes the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handle counts one executed change.
func (r *Recorder) Handle(event reconcile.Event) {
	result := "success"
	if !event.Succeeded() {
		result = "error"
	}
	r.changes.WithLabelValues(string(event.Change.Action), string(event.Change.Entity), result).Inc()
}

// Planned records the size of a plan.
func (r *Recorder) Planned(plan *reconcile.Plan) {
	for _, action := range []reconcile.Action{reconcile.ActionCreate, reconcile.ActionUpdate, reconcile.ActionDelete} {
		r.planned.WithLabelValues(string(action)).Set(float64(plan.Count(action)))
	}
}

// Finish records the end of a run that started at start.
func (r *Recorder) Finish(start time.Time) {
	now := time.Now()
	r.lastRun.Set(float64(now.Unix()))
	r.duration.Set(now.Sub(start).Seconds())
}

// Push sends all recorded metrics to the Pushgateway at url, grouped by
// job and guild id.
func (r *Recorder) Push(ctx context.Context, url, job, guildID string) error {
	err := push.New(url, job).
		Gatherer(r.registry).
		Grouping("guild_id", guildID).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
