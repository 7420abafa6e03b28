package cmd

import (
	"github.com/kilianp07/elcircuit/core/model"
	"github.com/kilianp07/elcircuit/internal/units"
)

func formatValue(v model.Value, unit string) string {
	x, ok := v.Get()
	if !ok {
		return "-"
	}
	return units.Format(x, unit)
}
