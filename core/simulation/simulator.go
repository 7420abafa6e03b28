package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/elcircuit/core/circuit"
	"github.com/kilianp07/elcircuit/core/logger"
	"github.com/kilianp07/elcircuit/core/model"
	"github.com/kilianp07/elcircuit/internal/eventbus"
)

var (
	// ErrNotRunning is returned by Pause outside the running state.
	ErrNotRunning = errors.New("simulation not running")
	// ErrUnknownComponent is returned for ids not placed in the circuit.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrWrongKind is returned when a value does not apply to the component.
	ErrWrongKind = errors.New("value does not apply to component kind")
)

// Simulator drives a circuit through discrete ticks. It owns the circuit:
// every mutation, query and control call is serialised with the tick so
// that none of them lands in the middle of a step.
type Simulator struct {
	mu      sync.Mutex
	cfg     Config
	circuit *circuit.Circuit
	state   model.RunState
	ticks   int64
	now     func() time.Time
	log     logger.Logger

	snapshots   *eventbus.Feed[model.Snapshot]
	transitions *eventbus.Feed[model.TransitionEvent]
}

// Option customises a Simulator.
type Option func(*Simulator)

// WithClock replaces time.Now for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// New creates an idle simulator for c. A nil circuit starts empty.
func New(cfg Config, c *circuit.Circuit, log logger.Logger, opts ...Option) (*Simulator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simulation config: %w", err)
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if c == nil {
		c = circuit.New()
	}
	s := &Simulator{
		cfg:         cfg,
		circuit:     c,
		state:       model.StateIdle,
		now:         time.Now,
		log:         log,
		snapshots:   eventbus.NewFeed[model.Snapshot](),
		transitions: eventbus.NewFeed[model.TransitionEvent](),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Snapshots returns the feed of per-tick snapshots.
func (s *Simulator) Snapshots() *eventbus.Feed[model.Snapshot] { return s.snapshots }

// Transitions returns the feed of run state changes.
func (s *Simulator) Transitions() *eventbus.Feed[model.TransitionEvent] { return s.transitions }

// Config returns the effective configuration.
func (s *Simulator) Config() Config { return s.cfg }

// State returns the current run state.
func (s *Simulator) State() model.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns the simulated seconds since the run started.
func (s *Simulator) Elapsed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed()
}

// elapsed is derived from the tick count so that pausing, resuming and
// scheduling jitter never change the simulated time of a tick.
func (s *Simulator) elapsed() float64 {
	return float64(s.ticks) * s.cfg.TickSeconds
}

// Start moves Idle or Paused to Running. Starting from Idle recalculates the
// circuit so that equivalents are available before the first tick. Starting
// a running simulation does nothing.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case model.StateRunning:
		return
	case model.StateIdle:
		s.circuit.RecalculateAll()
	}
	s.transition(model.StateRunning)
}

// Pause freezes the run. All stored state is kept as is.
func (s *Simulator) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != model.StateRunning {
		return fmt.Errorf("pause from %s: %w", s.state, ErrNotRunning)
	}
	s.transition(model.StatePaused)
	return nil
}

// Reset returns to Idle: elapsed time goes back to zero, capacitors are
// discharged and every derived value is discarded. Components stay placed.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks = 0
	s.circuit.ResetState()
	if s.state != model.StateIdle {
		s.transition(model.StateIdle)
	}
}

func (s *Simulator) transition(to model.RunState) {
	ev := model.TransitionEvent{From: s.state, To: to, Elapsed: s.elapsed(), Time: s.now()}
	s.state = to
	s.log.Infow("simulation state changed", map[string]any{
		"from":      ev.From.String(),
		"to":        ev.To.String(),
		"elapsed_s": ev.Elapsed,
	})
	s.transitions.Publish(ev)
}

// Tick advances a running simulation by one step and returns the resulting
// snapshot. It reports false and does nothing when the run is not active.
func (s *Simulator) Tick() (model.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != model.StateRunning {
		return model.Snapshot{}, false
	}
	s.ticks++
	s.circuit.Advance(s.elapsed())
	snap := s.snapshot()
	s.log.Debugw("tick", map[string]any{
		"tick":      snap.Tick,
		"elapsed_s": snap.Elapsed,
		"current":   snap.Current.String(),
	})
	s.snapshots.Publish(snap)
	return snap, true
}

// Snapshot returns the observable state without advancing time.
func (s *Simulator) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Simulator) snapshot() model.Snapshot {
	return model.Snapshot{
		Tick:                  s.ticks,
		Elapsed:               s.elapsed(),
		State:                 s.state,
		EquivalentEMF:         s.circuit.EquivalentEMF(),
		EquivalentResistance:  s.circuit.EquivalentResistance(),
		EquivalentCapacitance: s.circuit.EquivalentCapacitance(),
		Current:               s.circuit.Current(),
		Components:            s.circuit.Readings(),
		Time:                  s.now(),
	}
}

// Run ticks at the configured wall-clock interval until ctx is done or
// MaxTicks ticks have completed. Ticks are skipped while the simulation is
// not running. Run returns nil on cancellation.
func (s *Simulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap, ok := s.Tick()
			if ok && s.cfg.MaxTicks > 0 && snap.Tick >= s.cfg.MaxTicks {
				s.log.Infof("max ticks reached after %.3f s", snap.Elapsed)
				return nil
			}
		}
	}
}

// RunFor performs n ticks back to back without waiting, starting the
// simulation if needed. It is meant for headless runs and returns the
// snapshot of every tick.
func (s *Simulator) RunFor(n int) []model.Snapshot {
	s.Start()
	out := make([]model.Snapshot, 0, n)
	for i := 0; i < n; i++ {
		snap, ok := s.Tick()
		if !ok {
			break
		}
		out = append(out, snap)
	}
	return out
}

// Close ends all feed subscriptions.
func (s *Simulator) Close() {
	s.snapshots.Close()
	s.transitions.Close()
}
