package circuit

import "github.com/kilianp07/elcircuit/core/model"

// Advance runs one simulation step at the absolute elapsed time t (seconds
// since the run started) and returns the branch current.
//
// With Req undefined or zero the current becomes undefined and nothing else
// changes. Otherwise every capacitor relaxes towards the supply voltage with
// its own time constant Req*Ci, and the branch current is derived from the
// first capacitor: I = (Veq - Vc) / Req. Without capacitors the steady-state
// I = Veq / Req applies. Resistor voltages follow from I.
//
// The first-capacitor rule is exact for a single series capacitor only.
func (c *Circuit) Advance(t float64) model.Value {
	c.RecalculateAll()

	req, ok := c.eqResistance.Get()
	if !ok || req == 0 {
		c.current = model.Undefined()
		return c.current
	}
	veq := c.eqEMF.Or(0)

	var i float64
	if len(c.capacitors) > 0 {
		for _, cp := range c.capacitors {
			cp.relax(t, req, c.eqEMF)
		}
		vc := c.capacitors[0].voltage.Or(0)
		i = (veq - vc) / req
	} else {
		i = veq / req
	}
	c.current = model.Defined(i)

	for _, r := range c.resistors {
		r.applyCurrent(i)
	}
	return c.current
}
