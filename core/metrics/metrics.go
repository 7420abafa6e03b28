package metrics

import "github.com/kilianp07/elcircuit/core/model"

// MetricsSink records simulation snapshots for observability purposes.
type MetricsSink interface {
	RecordSnapshot(s model.Snapshot) error
}

// TransitionRecorder records start/pause/reset transitions.
type TransitionRecorder interface {
	RecordTransition(ev model.TransitionEvent) error
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close() error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSnapshot(model.Snapshot) error          { return nil }
func (NopSink) RecordTransition(model.TransitionEvent) error { return nil }
