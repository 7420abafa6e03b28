package cmd

import (
	"fmt"
	"strings"

	"github.com/kilianp07/elcircuit/core/circuit"
	"github.com/kilianp07/elcircuit/core/model"
)

// parseComponent reads a component flag of the form [id:]kind[=value][@volts].
// The value is the kind's primary quantity (EMF, resistance or capacitance);
// @volts sets the initial voltage of a capacitor.
func parseComponent(s string) (circuit.ComponentDef, error) {
	var def circuit.ComponentDef
	rest := strings.TrimSpace(s)
	if id, tail, ok := strings.Cut(rest, ":"); ok {
		def.ID = strings.TrimSpace(id)
		rest = tail
	}
	kindStr, value, _ := strings.Cut(rest, "=")
	kind, err := model.ParseKind(kindStr)
	if err != nil {
		return def, fmt.Errorf("component %q: %w", s, err)
	}
	def.Type = kind.String()
	value, volts, hasVolts := strings.Cut(value, "@")
	if hasVolts && kind != model.KindCapacitor {
		return def, fmt.Errorf("component %q: initial voltage only applies to capacitors", s)
	}
	switch kind {
	case model.KindBattery:
		def.EMF = value
	case model.KindResistor:
		def.Resistance = value
	case model.KindCapacitor:
		def.Capacitance = value
		def.Voltage = volts
	}
	if _, err := def.Build(); err != nil {
		return def, fmt.Errorf("component %q: %w", s, err)
	}
	return def, nil
}

func parseComponents(flags []string) ([]circuit.ComponentDef, error) {
	defs := make([]circuit.ComponentDef, 0, len(flags))
	for _, f := range flags {
		def, err := parseComponent(f)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// buildCircuit places the configured components followed by the ones given
// on the command line.
func buildCircuit(base circuit.Definition, flags []string) (*circuit.Circuit, error) {
	extra, err := parseComponents(flags)
	if err != nil {
		return nil, err
	}
	def := circuit.Definition{Components: append(append([]circuit.ComponentDef(nil), base.Components...), extra...)}
	return def.Build()
}
