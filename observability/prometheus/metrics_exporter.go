package prometheus

import (
	"errors"
	"fmt"
	"time"

	"github.com/Helix128/EasyAsync/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
// Install it with core.SetMetrics.
type MetricsExporter struct {
	taskDurationSeconds *prom.HistogramVec
	spawnFailuresTotal  prom.Counter
	taskFaultsTotal     prom.Counter
	tasksCancelledTotal prom.Counter
	callbackQueueDepth  prom.Gauge
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "easyasync"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Task execution duration in seconds, by terminal state.",
		Buckets:   buckets,
	}, []string{"state"})
	spawnFailures := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "spawn_failures_total",
		Help:      "Total number of refused context creations.",
	})
	faults := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_faults_total",
		Help:      "Total number of work functions that panicked or returned an error.",
	})
	cancelled := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_cancelled_total",
		Help:      "Total number of running tasks that were forcibly cancelled.",
	})
	queueDepth := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "callback_queue_depth",
		Help:      "Current number of deferred callbacks awaiting a pump.",
	})

	var err error
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if spawnFailures, err = registerCollector(reg, spawnFailures); err != nil {
		return nil, err
	}
	if faults, err = registerCollector(reg, faults); err != nil {
		return nil, err
	}
	if cancelled, err = registerCollector(reg, cancelled); err != nil {
		return nil, err
	}
	if queueDepth, err = registerCollector(reg, queueDepth); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		taskDurationSeconds: durationVec,
		spawnFailuresTotal:  spawnFailures,
		taskFaultsTotal:     faults,
		tasksCancelledTotal: cancelled,
		callbackQueueDepth:  queueDepth,
	}, nil
}

// RecordTaskDuration records task execution duration by terminal state.
func (m *MetricsExporter) RecordTaskDuration(taskName string, state core.TaskState, duration time.Duration) {
	if m == nil {
		return
	}
	m.taskDurationSeconds.WithLabelValues(state.String()).Observe(duration.Seconds())
}

// RecordSpawnFailure records a refused context creation.
func (m *MetricsExporter) RecordSpawnFailure(taskName string) {
	if m == nil {
		return
	}
	m.spawnFailuresTotal.Inc()
}

// RecordTaskFault records a work-function fault.
func (m *MetricsExporter) RecordTaskFault(taskName string) {
	if m == nil {
		return
	}
	m.taskFaultsTotal.Inc()
}

// RecordTaskCancelled records a forced cancellation.
func (m *MetricsExporter) RecordTaskCancelled(taskName string) {
	if m == nil {
		return
	}
	m.tasksCancelledTotal.Inc()
}

// RecordQueueDepth records the callback queue depth.
func (m *MetricsExporter) RecordQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.callbackQueueDepth.Set(float64(depth))
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
