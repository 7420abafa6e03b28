package metrics

import (
	"errors"

	"github.com/kilianp07/elcircuit/core/model"
)

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSnapshot forwards the snapshot to every sink. A failing sink does
// not prevent the others from recording; the errors are joined.
func (m *MultiSink) RecordSnapshot(s model.Snapshot) error {
	var errs []error
	for _, sink := range m.Sinks {
		if err := sink.RecordSnapshot(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordTransition forwards the event to sinks that support it.
func (m *MultiSink) RecordTransition(ev model.TransitionEvent) error {
	var errs []error
	for _, sink := range m.Sinks {
		if rec, ok := sink.(TransitionRecorder); ok {
			if err := rec.RecordTransition(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink holding resources.
func (m *MultiSink) Close() error {
	var errs []error
	for _, sink := range m.Sinks {
		if c, ok := sink.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
