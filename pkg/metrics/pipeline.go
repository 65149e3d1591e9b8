package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records commit outcomes for the interaction pipeline.
type PipelineMetrics struct {
	duration  *prometheus.HistogramVec
	commits   *prometheus.CounterVec
	movements *prometheus.CounterVec
	degraded  *prometheus.CounterVec
}

// Commit outcome labels.
const (
	OutcomeCommitted = "committed"
	OutcomeDegraded  = "degraded"
	OutcomeFailed    = "failed"
)

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "commit_duration_seconds",
		Help:    "Duration of movement commits in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"direction", "partition"})
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commits_total",
		Help: "Movement commits by direction, partition and outcome.",
	}, []string{"direction", "partition", "outcome"})
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "movements_persisted_total",
		Help: "Individual movement records appended to the ledger.",
	}, []string{"direction", "partition"})
	degraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "best_effort_failures_total",
		Help: "Best-effort side effects that failed after a successful commit.",
	}, []string{"step"})
	reg.MustRegister(duration, commits, movements, degraded)
	return &PipelineMetrics{
		duration:  duration,
		commits:   commits,
		movements: movements,
		degraded:  degraded,
	}
}

// ObserveCommitDuration records how long a commit took.
func (m *PipelineMetrics) ObserveCommitDuration(direction, partition string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(direction), normalizeLabel(partition)).Observe(d.Seconds())
}

// IncCommit counts one finished commit with its outcome.
func (m *PipelineMetrics) IncCommit(direction, partition, outcome string) {
	if m == nil || m.commits == nil {
		return
	}
	m.commits.WithLabelValues(normalizeLabel(direction), normalizeLabel(partition), normalizeLabel(outcome)).Inc()
}

// AddMovements counts records appended to the ledger.
func (m *PipelineMetrics) AddMovements(direction, partition string, n int) {
	if m == nil || m.movements == nil || n <= 0 {
		return
	}
	m.movements.WithLabelValues(normalizeLabel(direction), normalizeLabel(partition)).Add(float64(n))
}

// IncDegraded counts a failed best-effort step, such as the confirmation post.
func (m *PipelineMetrics) IncDegraded(step string) {
	if m == nil || m.degraded == nil {
		return
	}
	m.degraded.WithLabelValues(normalizeLabel(step)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
