package model

import (
	"encoding/json"
	"strconv"
)

// Value is an optional measurement. The zero Value is undefined, which is a
// distinct outcome from a defined zero.
type Value struct {
	v  float64
	ok bool
}

// Defined returns a Value holding x.
func Defined(x float64) Value { return Value{v: x, ok: true} }

// Undefined returns a Value with no meaningful result.
func Undefined() Value { return Value{} }

// Get returns the held number and whether it is defined.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

// IsDefined reports whether v holds a number.
func (v Value) IsDefined() bool { return v.ok }

// Or returns the held number, or fallback when v is undefined.
func (v Value) Or(fallback float64) float64 {
	if !v.ok {
		return fallback
	}
	return v.v
}

// IsZero reports whether v is defined and exactly zero.
func (v Value) IsZero() bool { return v.ok && v.v == 0 }

func (v Value) String() string {
	if !v.ok {
		return "undefined"
	}
	return strconv.FormatFloat(v.v, 'g', -1, 64)
}

// MarshalJSON encodes an undefined Value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON decodes null as undefined.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var x float64
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	*v = Defined(x)
	return nil
}
