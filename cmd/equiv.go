package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/elcircuit/core/model"
)

var equivComponents []string

var equivCmd = &cobra.Command{
	Use:   "equiv",
	Short: "Print the series equivalents of a circuit",
	RunE:  equiv,
}

func init() {
	equivCmd.Flags().StringArrayVar(&equivComponents, "component", nil, "component as [id:]kind[=value][@volts], repeatable")
	rootCmd.AddCommand(equivCmd)
}

func equiv(cmd *cobra.Command, args []string) error {
	cfg, err := loadOptional(cmd)
	if err != nil {
		return err
	}
	c, err := buildCircuit(cfg.Circuit, equivComponents)
	if err != nil {
		return err
	}
	c.RecalculateAll()

	tau := model.Undefined()
	if r, ok := c.EquivalentResistance().Get(); ok {
		if ceq, ok := c.EquivalentCapacitance().Get(); ok {
			tau = model.Defined(r * ceq)
		}
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	rows := []struct{ name, value string }{
		{"components", fmt.Sprint(c.Len())},
		{"equivalent emf", formatValue(c.EquivalentEMF(), "V")},
		{"equivalent resistance", formatValue(c.EquivalentResistance(), "Ω")},
		{"equivalent capacitance", formatValue(c.EquivalentCapacitance(), "F")},
		{"current", formatValue(c.Current(), "A")},
		{"time constant", formatValue(tau, "s")},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r.name, r.value)
	}
	return w.Flush()
}
