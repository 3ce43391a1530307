package prometheus

import (
	"context"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/Helix128/EasyAsync/core"
)

// TestExporter_Counters verifies the event counters
// Given: An exporter on a private registry
// When: Spawn failures, faults and cancellations are recorded
// Then: Each counter carries the event count
func TestExporter_Counters(t *testing.T) {
	// Arrange
	reg := prom.NewRegistry()
	m, err := NewMetricsExporter("test", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter() = %v, want nil", err)
	}

	// Act
	m.RecordSpawnFailure("a")
	m.RecordTaskFault("a")
	m.RecordTaskFault("b")
	m.RecordTaskCancelled("c")

	// Assert
	if got := testutil.ToFloat64(m.spawnFailuresTotal); got != 1 {
		t.Errorf("spawn_failures_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.taskFaultsTotal); got != 2 {
		t.Errorf("task_faults_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.tasksCancelledTotal); got != 1 {
		t.Errorf("tasks_cancelled_total = %v, want 1", got)
	}
}

// TestExporter_QueueDepth verifies the gauge tracks the latest depth
// Given: An exporter on a private registry
// When: Queue depths are recorded in sequence
// Then: The gauge carries the most recent value
func TestExporter_QueueDepth(t *testing.T) {
	reg := prom.NewRegistry()
	m, err := NewMetricsExporter("test", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter() = %v, want nil", err)
	}

	m.RecordQueueDepth(7)
	m.RecordQueueDepth(3)

	if got := testutil.ToFloat64(m.callbackQueueDepth); got != 3 {
		t.Errorf("callback_queue_depth = %v, want 3", got)
	}
}

// TestExporter_DurationByState verifies the per-state histogram
// Given: An exporter on a private registry
// When: Durations are recorded for two terminal states
// Then: The histogram carries one series per state
func TestExporter_DurationByState(t *testing.T) {
	reg := prom.NewRegistry()
	m, err := NewMetricsExporter("test", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter() = %v, want nil", err)
	}

	m.RecordTaskDuration("a", core.StateCompleted, 10*time.Millisecond)
	m.RecordTaskDuration("b", core.StateCompleted, 20*time.Millisecond)
	m.RecordTaskDuration("c", core.StateFailed, 5*time.Millisecond)

	if got := testutil.CollectAndCount(m.taskDurationSeconds); got != 2 {
		t.Errorf("task_duration_seconds series = %d, want 2 (completed, failed)", got)
	}

	// The completed series carries both samples.
	if got := histogramSampleCount(t, reg, "test_task_duration_seconds", "completed"); got != 2 {
		t.Errorf("completed sample count = %d, want 2", got)
	}
	if got := histogramSampleCount(t, reg, "test_task_duration_seconds", "failed"); got != 1 {
		t.Errorf("failed sample count = %d, want 1", got)
	}
}

func histogramSampleCount(t *testing.T, g prom.Gatherer, name, state string) uint64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather() = %v, want nil", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue(m, "state") == state {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// TestExporter_ReusesRegisteredCollectors verifies idempotent registration
// Given: Two exporters built against the same registry and namespace
// When: Both record the same counter
// Then: They share one collector and the counts accumulate
func TestExporter_ReusesRegisteredCollectors(t *testing.T) {
	// Arrange
	reg := prom.NewRegistry()
	first, err := NewMetricsExporter("test", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("first NewMetricsExporter() = %v, want nil", err)
	}

	// Act - second construction must reuse, not fail
	second, err := NewMetricsExporter("test", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("second NewMetricsExporter() = %v, want nil", err)
	}
	first.RecordTaskFault("a")
	second.RecordTaskFault("b")

	// Assert
	if got := testutil.ToFloat64(first.taskFaultsTotal); got != 2 {
		t.Errorf("task_faults_total = %v, want 2 across both exporters", got)
	}
}

// TestExporter_NilReceiverIsSafe verifies the uninstalled-exporter guard
// Given: A nil exporter
// When: Every recording method is called
// Then: Nothing panics
func TestExporter_NilReceiverIsSafe(t *testing.T) {
	var m *MetricsExporter

	m.RecordTaskDuration("a", core.StateCompleted, time.Second)
	m.RecordSpawnFailure("a")
	m.RecordTaskFault("a")
	m.RecordTaskCancelled("a")
	m.RecordQueueDepth(1)
}

// TestExporter_EndToEnd verifies the exporter observes real task traffic
// Given: The exporter installed as the process-wide metrics sink
// When: A task runs to completion
// Then: A duration sample lands under the completed state
func TestExporter_EndToEnd(t *testing.T) {
	// Arrange
	core.SetLogger(core.NewNoOpLogger())
	t.Cleanup(func() {
		core.SetLogger(core.NewDefaultLogger())
		core.SetMetrics(nil)
	})

	reg := prom.NewRegistry()
	m, err := NewMetricsExporter("test", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter() = %v, want nil", err)
	}
	core.SetMetrics(m)

	// Act
	done := make(chan struct{})
	task := core.NewTask(
		func(ctx context.Context) (int, error) { return 0, nil },
		func(int) { close(done) },
		core.TaskOptions{Dispatch: core.DispatchInline},
	)
	if err := task.Start(); err != nil {
		t.Fatalf("Start() = %v, want nil", err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task never completed")
	}

	// Assert - the sample is recorded after the callback, so poll briefly
	deadline := time.Now().Add(5 * time.Second)
	for testutil.CollectAndCount(m.taskDurationSeconds) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no duration sample recorded")
		}
		time.Sleep(time.Millisecond)
	}
}
