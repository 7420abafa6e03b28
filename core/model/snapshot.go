package model

import (
	"fmt"
	"time"
)

// RunState is the lifecycle state of a simulation run.
type RunState int

const (
	StateIdle RunState = iota
	StateRunning
	StatePaused
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s RunState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name.
func (s *RunState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = StateIdle
	case "running":
		*s = StateRunning
	case "paused":
		*s = StatePaused
	default:
		return fmt.Errorf("unknown run state %q", b)
	}
	return nil
}

// ComponentReading is the observable state of a single component.
// Fields that do not apply to the component kind stay undefined.
type ComponentReading struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	EMF         Value  `json:"emf"`
	Resistance  Value  `json:"resistance"`
	Capacitance Value  `json:"capacitance"`
	Voltage     Value  `json:"voltage"`
	Charge      Value  `json:"charge"`
	Current     Value  `json:"current"`
}

// Snapshot captures the circuit after a completed tick.
type Snapshot struct {
	Tick                  int64              `json:"tick"`
	Elapsed               float64            `json:"elapsed_s"`
	State                 RunState           `json:"state"`
	EquivalentEMF         Value              `json:"equivalent_emf"`
	EquivalentResistance  Value              `json:"equivalent_resistance"`
	EquivalentCapacitance Value              `json:"equivalent_capacitance"`
	Current               Value              `json:"current"`
	Components            []ComponentReading `json:"components"`
	Time                  time.Time          `json:"time"`
}

// Reading returns the reading for the component id.
func (s Snapshot) Reading(id string) (ComponentReading, bool) {
	for _, r := range s.Components {
		if r.ID == id {
			return r, true
		}
	}
	return ComponentReading{}, false
}

// TransitionEvent records a change of run state.
type TransitionEvent struct {
	From    RunState  `json:"from"`
	To      RunState  `json:"to"`
	Elapsed float64   `json:"elapsed_s"`
	Time    time.Time `json:"time"`
}
