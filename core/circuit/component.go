package circuit

import (
	"math"

	"github.com/google/uuid"

	"github.com/kilianp07/elcircuit/core/model"
)

// Component is a placed element of the series loop.
type Component interface {
	ID() string
	Kind() model.Kind
	// AppliesVoltage is true for sources that drive the loop.
	AppliesVoltage() bool
	Reading() model.ComponentReading
}

func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// Battery is an ideal DC voltage source.
type Battery struct {
	id  string
	emf model.Value
}

// NewBattery creates a battery. An empty id is replaced by a random one.
func NewBattery(id string, emf model.Value) *Battery {
	return &Battery{id: newID(id), emf: emf}
}

func (b *Battery) ID() string             { return b.id }
func (b *Battery) Kind() model.Kind       { return model.KindBattery }
func (b *Battery) AppliesVoltage() bool   { return true }
func (b *Battery) EMF() model.Value       { return b.emf }
func (b *Battery) SetEMF(emf model.Value) { b.emf = emf }

func (b *Battery) Reading() model.ComponentReading {
	return model.ComponentReading{ID: b.id, Kind: model.KindBattery, EMF: b.emf, Voltage: b.emf}
}

// Resistor is an ideal resistor. Its voltage is derived from the branch
// current on every recalculation and cannot be set directly.
type Resistor struct {
	id         string
	resistance model.Value
	voltage    model.Value
}

// NewResistor creates a resistor. An empty id is replaced by a random one.
func NewResistor(id string, resistance model.Value) *Resistor {
	return &Resistor{id: newID(id), resistance: resistance}
}

func (r *Resistor) ID() string                    { return r.id }
func (r *Resistor) Kind() model.Kind              { return model.KindResistor }
func (r *Resistor) AppliesVoltage() bool          { return false }
func (r *Resistor) Resistance() model.Value       { return r.resistance }
func (r *Resistor) SetResistance(res model.Value) { r.resistance = res }
func (r *Resistor) Voltage() model.Value          { return r.voltage }

// applyCurrent sets V = I * R. Without a resistance the voltage is undefined.
func (r *Resistor) applyCurrent(i float64) {
	res, ok := r.resistance.Get()
	if !ok {
		r.voltage = model.Undefined()
		return
	}
	r.voltage = model.Defined(i * res)
}

func (r *Resistor) Reading() model.ComponentReading {
	var cur model.Value
	if v, ok := r.voltage.Get(); ok {
		if res, ok := r.resistance.Get(); ok && res != 0 {
			cur = model.Defined(v / res)
		}
	}
	return model.ComponentReading{
		ID:         r.id,
		Kind:       model.KindResistor,
		Resistance: r.resistance,
		Voltage:    r.voltage,
		Current:    cur,
	}
}

// Capacitor is an ideal capacitor. Its voltage is the state variable of the
// RC transient and carries over from one tick to the next.
type Capacitor struct {
	id          string
	capacitance model.Value
	voltage     model.Value
	charge      model.Value
	current     model.Value
}

// NewCapacitor creates a capacitor with an initial voltage, which may be
// undefined for an uncharged part.
func NewCapacitor(id string, capacitance, voltage model.Value) *Capacitor {
	c := &Capacitor{id: newID(id), capacitance: capacitance}
	c.SetVoltage(voltage)
	return c
}

func (c *Capacitor) ID() string               { return c.id }
func (c *Capacitor) Kind() model.Kind         { return model.KindCapacitor }
func (c *Capacitor) AppliesVoltage() bool     { return false }
func (c *Capacitor) Capacitance() model.Value { return c.capacitance }
func (c *Capacitor) Voltage() model.Value     { return c.voltage }
func (c *Capacitor) Charge() model.Value      { return c.charge }
func (c *Capacitor) Current() model.Value     { return c.current }

// SetCapacitance updates C and the stored charge.
func (c *Capacitor) SetCapacitance(capacitance model.Value) {
	c.capacitance = capacitance
	c.updateCharge()
}

// SetVoltage sets the stored voltage, used as initial condition by the next
// transient step.
func (c *Capacitor) SetVoltage(v model.Value) {
	c.voltage = v
	c.updateCharge()
}

func (c *Capacitor) updateCharge() {
	capacitance, okC := c.capacitance.Get()
	v, okV := c.voltage.Get()
	if !okC || !okV {
		c.charge = model.Undefined()
		return
	}
	c.charge = model.Defined(capacitance * v)
}

// relax moves the stored voltage along
//
//	V(t) = Vf + (Vi - Vf) * exp(-t / (R*C))
//
// where Vf is the supply voltage (0 when there is none) and Vi the stored
// voltage. Capacitors without a usable capacitance are left untouched.
func (c *Capacitor) relax(t, req float64, supply model.Value) {
	capacitance, ok := c.capacitance.Get()
	if !ok || capacitance == 0 || req == 0 {
		return
	}
	tau := req * capacitance
	vf := supply.Or(0)
	vi := c.voltage.Or(0)
	v := vf + (vi-vf)*math.Exp(-t/tau)

	c.voltage = model.Defined(v)
	c.charge = model.Defined(capacitance * v)
	c.current = model.Defined((vf - v) / req)
}

func (c *Capacitor) clear() {
	c.voltage = model.Defined(0)
	c.current = model.Defined(0)
	c.updateCharge()
}

func (c *Capacitor) Reading() model.ComponentReading {
	return model.ComponentReading{
		ID:          c.id,
		Kind:        model.KindCapacitor,
		Capacitance: c.capacitance,
		Voltage:     c.voltage,
		Charge:      c.charge,
		Current:     c.current,
	}
}
