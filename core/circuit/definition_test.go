package circuit

import (
	"errors"
	"math"
	"testing"

	"github.com/kilianp07/elcircuit/core/model"
)

func TestDefinitionBuild(t *testing.T) {
	d := Definition{Components: []ComponentDef{
		{ID: "b", Type: "battery", EMF: "-12V"},
		{ID: "r", Type: "R", Resistance: "4.7k"},
		{ID: "c", Type: "capacitor", Capacitance: "10uF", Voltage: "2"},
		{Type: "resistor"},
	}}
	c, err := d.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if c.Len() != 4 {
		t.Fatalf("expected 4 components got %d", c.Len())
	}
	b, _ := c.Component("b")
	if got := b.(*Battery).EMF().Or(0); got != 12 {
		t.Fatalf("emf magnitude expected 12 got %v", got)
	}
	r, _ := c.Component("r")
	if got := r.(*Resistor).Resistance().Or(0); got != 4700 {
		t.Fatalf("expected 4700 got %v", got)
	}
	cp, _ := c.Component("c")
	capacitor := cp.(*Capacitor)
	if got := capacitor.Capacitance().Or(0); math.Abs(got-1e-5) > 1e-18 {
		t.Fatalf("expected 1e-5 got %v", got)
	}
	if got := capacitor.Charge().Or(0); math.Abs(got-2e-5) > 1e-18 {
		t.Fatalf("expected charge 2e-5 got %v", got)
	}
	if got := c.Resistors()[1].Resistance().Or(0); got != DefaultResistance {
		t.Fatalf("expected default resistance got %v", got)
	}
}

func TestDefinitionUnset(t *testing.T) {
	d := Definition{Components: []ComponentDef{{Type: "battery", EMF: "unset"}}}
	c, err := d.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if c.Batteries()[0].EMF() != model.Undefined() {
		t.Fatalf("emf should be undefined")
	}
}

func TestDefinitionErrors(t *testing.T) {
	cases := []Definition{
		{Components: []ComponentDef{{Type: "inductor"}}},
		{Components: []ComponentDef{{Type: "resistor", Resistance: "ten"}}},
		{Components: []ComponentDef{{Type: "capacitor", Voltage: "1x"}}},
		{Components: []ComponentDef{{ID: "a", Type: "r"}, {ID: "a", Type: "c"}}},
	}
	for i, d := range cases {
		if err := d.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
	_, err := Definition{Components: []ComponentDef{{Type: "diode"}}}.Build()
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind got %v", err)
	}
}
