package model

import (
	"encoding/json"
	"testing"
)

func TestValueUndefinedIsNotZero(t *testing.T) {
	var zero Value
	if zero.IsDefined() || zero.IsZero() {
		t.Fatalf("zero Value must be undefined")
	}
	if !Defined(0).IsZero() {
		t.Fatalf("Defined(0) must be zero")
	}
	if got := Undefined().Or(7); got != 7 {
		t.Fatalf("Or fallback = %v", got)
	}
	if got := Defined(2).Or(7); got != 2 {
		t.Fatalf("Or = %v", got)
	}
	if Undefined().String() != "undefined" || Defined(1.5).String() != "1.5" {
		t.Fatalf("String: %s %s", Undefined(), Defined(1.5))
	}
}

func TestSnapshotJSON(t *testing.T) {
	in := Snapshot{
		Tick:    4,
		State:   StatePaused,
		Current: Defined(-0.25),
		Components: []ComponentReading{
			{ID: "c1", Kind: KindCapacitor, Voltage: Defined(3)},
		},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw["state"] != "paused" || raw["equivalent_emf"] != nil {
		t.Fatalf("unexpected encoding: %s", data)
	}

	var out Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.State != StatePaused || out.EquivalentEMF.IsDefined() {
		t.Fatalf("decoded %+v", out)
	}
	r, ok := out.Reading("c1")
	if !ok || r.Kind != KindCapacitor || r.Voltage.Or(0) != 3 || r.Charge.IsDefined() {
		t.Fatalf("decoded reading %+v", r)
	}
	if _, ok := out.Reading("missing"); ok {
		t.Fatalf("missing reading found")
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"battery": KindBattery, "V": KindBattery,
		"Resistor": KindResistor, "r": KindResistor,
		"cap": KindCapacitor, " capacitor ": KindCapacitor,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseKind("inductor"); err == nil {
		t.Fatalf("expected error for inductor")
	}
}
