package model

import (
	"fmt"
	"strings"
)

// Kind identifies the type of a placed component.
type Kind int

const (
	KindBattery Kind = iota
	KindResistor
	KindCapacitor
)

func (k Kind) String() string {
	switch k {
	case KindBattery:
		return "battery"
	case KindResistor:
		return "resistor"
	case KindCapacitor:
		return "capacitor"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a component type name to its Kind. Single-letter
// designators (V, R, C) are accepted as well.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "battery", "bat", "v":
		return KindBattery, nil
	case "resistor", "res", "r":
		return KindResistor, nil
	case "capacitor", "cap", "c":
		return KindCapacitor, nil
	}
	return 0, fmt.Errorf("unknown component type %q", s)
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name accepted by ParseKind.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
