// Package metrics defines the sinks that observe a simulation run. A sink
// receives a model.Snapshot after every completed tick and, when it
// implements TransitionRecorder, each change of run state. Sinks are built
// from configuration through a registry; several configured sinks are
// combined into a MultiSink.
package metrics
