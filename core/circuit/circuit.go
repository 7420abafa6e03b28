package circuit

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/elcircuit/core/model"
)

var (
	// ErrDuplicateID is returned when a component id is already placed.
	ErrDuplicateID = errors.New("duplicate component id")
	// ErrUnknownKind is returned for components of an unsupported kind.
	ErrUnknownKind = errors.New("unknown component kind")
)

// Circuit is a single series loop. Equivalents and the branch current are
// derived from the member collections on every recalculation and are never
// set independently.
type Circuit struct {
	batteries  []*Battery
	resistors  []*Resistor
	capacitors []*Capacitor

	eqEMF         model.Value
	eqResistance  model.Value
	eqCapacitance model.Value
	current       model.Value
}

// New returns an empty circuit.
func New() *Circuit { return &Circuit{} }

// Add places the component at the end of its kind's collection.
func (c *Circuit) Add(comp Component) error {
	if comp == nil {
		return fmt.Errorf("%w: nil", ErrUnknownKind)
	}
	if _, ok := c.Component(comp.ID()); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, comp.ID())
	}
	switch v := comp.(type) {
	case *Battery:
		c.batteries = append(c.batteries, v)
	case *Resistor:
		c.resistors = append(c.resistors, v)
	case *Capacitor:
		c.capacitors = append(c.capacitors, v)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownKind, comp)
	}
	return nil
}

// Remove takes the component out of the circuit. Equivalents reflect the
// removal on the next recalculation.
func (c *Circuit) Remove(id string) (Component, bool) {
	for i, b := range c.batteries {
		if b.id == id {
			c.batteries = append(c.batteries[:i], c.batteries[i+1:]...)
			return b, true
		}
	}
	for i, r := range c.resistors {
		if r.id == id {
			c.resistors = append(c.resistors[:i], c.resistors[i+1:]...)
			return r, true
		}
	}
	for i, cp := range c.capacitors {
		if cp.id == id {
			c.capacitors = append(c.capacitors[:i], c.capacitors[i+1:]...)
			return cp, true
		}
	}
	return nil, false
}

// Component looks up a placed component by id.
func (c *Circuit) Component(id string) (Component, bool) {
	for _, b := range c.batteries {
		if b.id == id {
			return b, true
		}
	}
	for _, r := range c.resistors {
		if r.id == id {
			return r, true
		}
	}
	for _, cp := range c.capacitors {
		if cp.id == id {
			return cp, true
		}
	}
	return nil, false
}

func (c *Circuit) Batteries() []*Battery    { return append([]*Battery(nil), c.batteries...) }
func (c *Circuit) Resistors() []*Resistor   { return append([]*Resistor(nil), c.resistors...) }
func (c *Circuit) Capacitors() []*Capacitor { return append([]*Capacitor(nil), c.capacitors...) }

// Len is the number of placed components.
func (c *Circuit) Len() int { return len(c.batteries) + len(c.resistors) + len(c.capacitors) }

func (c *Circuit) EquivalentEMF() model.Value         { return c.eqEMF }
func (c *Circuit) EquivalentResistance() model.Value  { return c.eqResistance }
func (c *Circuit) EquivalentCapacitance() model.Value { return c.eqCapacitance }

// Current is the branch current from the last recalculation or tick.
func (c *Circuit) Current() model.Value { return c.current }

// ComputeEquivalentBattery sums the defined EMFs. The result is undefined
// when no battery has a defined EMF.
func (c *Circuit) ComputeEquivalentBattery() model.Value {
	emfs := make([]float64, 0, len(c.batteries))
	for _, b := range c.batteries {
		if v, ok := b.emf.Get(); ok {
			emfs = append(emfs, v)
		}
	}
	if len(emfs) == 0 {
		c.eqEMF = model.Undefined()
	} else {
		c.eqEMF = model.Defined(floats.Sum(emfs))
	}
	return c.eqEMF
}

// ComputeEquivalentResistor sums the defined resistances. Unlike the other
// equivalents an empty or all-unset collection yields a defined zero.
func (c *Circuit) ComputeEquivalentResistor() model.Value {
	rs := make([]float64, 0, len(c.resistors))
	for _, r := range c.resistors {
		if v, ok := r.resistance.Get(); ok {
			rs = append(rs, v)
		}
	}
	c.eqResistance = model.Defined(floats.Sum(rs))
	return c.eqResistance
}

// ComputeEquivalentCapacitor combines capacitors in series,
// 1/Ceq = sum(1/Ci), skipping unset and zero capacitances.
func (c *Circuit) ComputeEquivalentCapacitor() model.Value {
	inv := make([]float64, 0, len(c.capacitors))
	for _, cp := range c.capacitors {
		if v, ok := cp.capacitance.Get(); ok && v != 0 {
			inv = append(inv, 1/v)
		}
	}
	sum := floats.Sum(inv)
	if sum == 0 {
		c.eqCapacitance = model.Undefined()
	} else {
		c.eqCapacitance = model.Defined(1 / sum)
	}
	return c.eqCapacitance
}

// ComputeBranchCurrent applies I = Veq / Req to the equivalents computed
// last. It is undefined if either equivalent is undefined or Req is zero.
func (c *Circuit) ComputeBranchCurrent() model.Value {
	veq, okV := c.eqEMF.Get()
	req, okR := c.eqResistance.Get()
	if !okV || !okR || req == 0 {
		c.current = model.Undefined()
		return c.current
	}
	c.current = model.Defined(veq / req)
	return c.current
}

// RecalculateAll recomputes battery, resistor and capacitor equivalents, then
// the steady-state current. When the current is defined every resistor with
// a resistance gets V = I * R.
func (c *Circuit) RecalculateAll() {
	c.ComputeEquivalentBattery()
	c.ComputeEquivalentResistor()
	c.ComputeEquivalentCapacitor()
	c.ComputeBranchCurrent()

	i, ok := c.current.Get()
	if !ok {
		return
	}
	for _, r := range c.resistors {
		if r.resistance.IsDefined() {
			r.applyCurrent(i)
		}
	}
}

// ResetState returns every derived quantity to its cold state: capacitors
// are discharged, resistor voltages, equivalents and the current become
// undefined. Components stay placed.
func (c *Circuit) ResetState() {
	for _, cp := range c.capacitors {
		cp.clear()
	}
	for _, r := range c.resistors {
		r.voltage = model.Undefined()
	}
	c.eqEMF = model.Undefined()
	c.eqResistance = model.Undefined()
	c.eqCapacitance = model.Undefined()
	c.current = model.Undefined()
}

// Readings returns the observable state of all components: batteries, then
// resistors, then capacitors, each in insertion order.
func (c *Circuit) Readings() []model.ComponentReading {
	out := make([]model.ComponentReading, 0, c.Len())
	for _, b := range c.batteries {
		out = append(out, b.Reading())
	}
	for _, r := range c.resistors {
		out = append(out, r.Reading())
	}
	for _, cp := range c.capacitors {
		out = append(out, cp.Reading())
	}
	return out
}
