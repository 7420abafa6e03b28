package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/elcircuit/core/model"
	"github.com/kilianp07/elcircuit/core/simulation"
	"github.com/kilianp07/elcircuit/infra/logger"
)

var (
	simComponents []string
	simTicks      int
	simTick       float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Step a circuit headlessly and print one row per tick",
	Example: `  elcircuit simulate --component battery=9 --component resistor=1k --component capacitor=1m --ticks 30
  elcircuit simulate -c config.yaml --ticks 100 --tick 0.01`,
	RunE: simulate,
}

func init() {
	simulateCmd.Flags().StringArrayVar(&simComponents, "component", nil, "component as [id:]kind[=value][@volts], repeatable")
	simulateCmd.Flags().IntVar(&simTicks, "ticks", 50, "number of ticks to run")
	simulateCmd.Flags().Float64Var(&simTick, "tick", simulation.DefaultTickSeconds, "simulated seconds per tick")
	rootCmd.AddCommand(simulateCmd)
}

func simulate(cmd *cobra.Command, args []string) error {
	if simTicks <= 0 {
		return fmt.Errorf("--ticks must be positive")
	}
	cfg, err := loadOptional(cmd)
	if err != nil {
		return err
	}
	c, err := buildCircuit(cfg.Circuit, simComponents)
	if err != nil {
		return err
	}
	simCfg := cfg.Simulation
	if cmd.Flags().Changed("tick") || simCfg.TickSeconds == 0 {
		simCfg.TickSeconds = simTick
	}
	sim, err := simulation.New(simCfg, c, logger.NewZerologLoggerTo(cmd.ErrOrStderr(), "simulate"))
	if err != nil {
		return err
	}
	defer sim.Close()

	hasCap := len(c.Capacitors()) > 0
	var firstCap string
	if hasCap {
		firstCap = c.Capacitors()[0].ID()
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICK\tELAPSED\tVEQ\tREQ\tI\tVC0")
	for _, snap := range sim.RunFor(simTicks) {
		vc0 := "-"
		if hasCap {
			if r, ok := snap.Reading(firstCap); ok {
				vc0 = formatValue(r.Voltage, "V")
			}
		}
		fmt.Fprintf(w, "%d\t%ss\t%s\t%s\t%s\t%s\n",
			snap.Tick,
			formatValue(model.Defined(snap.Elapsed), ""),
			formatValue(snap.EquivalentEMF, "V"),
			formatValue(snap.EquivalentResistance, "Ω"),
			formatValue(snap.Current, "A"),
			vc0,
		)
	}
	return w.Flush()
}
