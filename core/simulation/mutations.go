package simulation

import (
	"fmt"

	"github.com/kilianp07/elcircuit/core/circuit"
	"github.com/kilianp07/elcircuit/core/model"
)

// AddComponent places comp in the circuit. During a run the change starts a
// new transient from the stored capacitor voltages.
func (s *Simulator) AddComponent(comp circuit.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.circuit.Add(comp); err != nil {
		return err
	}
	s.log.Infof("added %s %s", comp.Kind(), comp.ID())
	return nil
}

// RemoveComponent takes the component out of the circuit.
func (s *Simulator) RemoveComponent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	comp, ok := s.circuit.Remove(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, id)
	}
	s.log.Infof("removed %s %s", comp.Kind(), id)
	return nil
}

// Reading returns the current state of one component.
func (s *Simulator) Reading(id string) (model.ComponentReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comp, ok := s.circuit.Component(id)
	if !ok {
		return model.ComponentReading{}, fmt.Errorf("%w: %s", ErrUnknownComponent, id)
	}
	return comp.Reading(), nil
}

// SetEMF updates a battery.
func (s *Simulator) SetEMF(id string, emf model.Value) error {
	return s.update(id, func(c circuit.Component) bool {
		b, ok := c.(*circuit.Battery)
		if ok {
			b.SetEMF(emf)
		}
		return ok
	})
}

// SetResistance updates a resistor.
func (s *Simulator) SetResistance(id string, r model.Value) error {
	return s.update(id, func(c circuit.Component) bool {
		res, ok := c.(*circuit.Resistor)
		if ok {
			res.SetResistance(r)
		}
		return ok
	})
}

// SetCapacitance updates a capacitor.
func (s *Simulator) SetCapacitance(id string, capacitance model.Value) error {
	return s.update(id, func(c circuit.Component) bool {
		cp, ok := c.(*circuit.Capacitor)
		if ok {
			cp.SetCapacitance(capacitance)
		}
		return ok
	})
}

// SetCapacitorVoltage pre-charges a capacitor. The value becomes the initial
// condition of the next step.
func (s *Simulator) SetCapacitorVoltage(id string, v model.Value) error {
	return s.update(id, func(c circuit.Component) bool {
		cp, ok := c.(*circuit.Capacitor)
		if ok {
			cp.SetVoltage(v)
		}
		return ok
	})
}

func (s *Simulator) update(id string, apply func(circuit.Component) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	comp, ok := s.circuit.Component(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, id)
	}
	if !apply(comp) {
		return fmt.Errorf("%w: %s is a %s", ErrWrongKind, id, comp.Kind())
	}
	if s.state == model.StateIdle {
		s.circuit.RecalculateAll()
	}
	return nil
}
