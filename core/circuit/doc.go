// Package circuit models a single series loop of batteries, resistors and
// capacitors.
//
// A Circuit aggregates its members into series equivalents (EMF, resistance,
// capacitance) and derives the branch current with Ohm's law. Advance evolves
// capacitor voltages along the RC exponential law for a given absolute
// elapsed time. Arithmetic edge cases never produce errors: they yield an
// undefined model.Value which callers must check before use.
package circuit
