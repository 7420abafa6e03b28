package circuit

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kilianp07/elcircuit/core/model"
	"github.com/kilianp07/elcircuit/internal/units"
)

// Default values of freshly placed components.
const (
	DefaultEMF         = 5.0
	DefaultResistance  = 100.0
	DefaultCapacitance = 1e-6
)

// ComponentDef describes a component with user supplied text values.
// An empty value selects the kind default; "unset" leaves it undefined.
type ComponentDef struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	EMF         string `json:"emf"`
	Resistance  string `json:"resistance"`
	Capacitance string `json:"capacitance"`
	Voltage     string `json:"voltage"`
}

// Definition lists the components of a circuit in placement order.
type Definition struct {
	Components []ComponentDef `json:"components"`
}

// Validate checks that every component can be built.
func (d Definition) Validate() error {
	_, err := d.Build()
	return err
}

// Build parses every component and places it into a new circuit. Malformed
// numbers are rejected here so that the core only ever sees numbers.
func (d Definition) Build() (*Circuit, error) {
	c := New()
	for i, def := range d.Components {
		comp, err := def.Build()
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		if err := c.Add(comp); err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
	}
	return c, nil
}

// Build creates the component described by d.
func (d ComponentDef) Build() (Component, error) {
	kind, err := model.ParseKind(d.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, d.Type)
	}
	switch kind {
	case model.KindBattery:
		emf, err := parseValue(d.EMF, DefaultEMF)
		if err != nil {
			return nil, fmt.Errorf("emf: %w", err)
		}
		return NewBattery(d.ID, emf), nil
	case model.KindResistor:
		res, err := parseValue(d.Resistance, DefaultResistance)
		if err != nil {
			return nil, fmt.Errorf("resistance: %w", err)
		}
		return NewResistor(d.ID, res), nil
	default:
		capacitance, err := parseValue(d.Capacitance, DefaultCapacitance)
		if err != nil {
			return nil, fmt.Errorf("capacitance: %w", err)
		}
		v, err := parseValue(d.Voltage, 0)
		if err != nil {
			return nil, fmt.Errorf("voltage: %w", err)
		}
		return NewCapacitor(d.ID, capacitance, v), nil
	}
}

// parseValue reads a magnitude. Signs are dropped: orientation in the loop
// is not modelled.
func parseValue(s string, def float64) (model.Value, error) {
	if strings.EqualFold(strings.TrimSpace(s), "unset") {
		return model.Undefined(), nil
	}
	x, err := units.Parse(s)
	if errors.Is(err, units.ErrEmpty) {
		return model.Defined(def), nil
	}
	if err != nil {
		return model.Undefined(), err
	}
	return model.Defined(math.Abs(x)), nil
}
