package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kilianp07/elcircuit/core/simulation"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `simulation:
  tick_seconds: 0.05
  interval_ms: 50
  max_ticks: 200
circuit:
  components:
    - id: b1
      type: battery
      emf: 9V
    - id: r1
      type: resistor
      resistance: 4.7k
    - id: c1
      type: capacitor
      capacitance: 100u
      voltage: 2
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: "nop"
logging:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"tick_seconds", cfg.Simulation.TickSeconds, 0.05},
		{"interval_ms", cfg.Simulation.IntervalMS, 50},
		{"max_ticks", cfg.Simulation.MaxTicks, int64(200)},
		{"components", len(cfg.Circuit.Components), 3},
		{"battery emf", cfg.Circuit.Components[0].EMF, "9V"},
		{"resistance", cfg.Circuit.Components[1].Resistance, "4.7k"},
		{"capacitor voltage", cfg.Circuit.Components[2].Voltage, "2"},
		{"prometheus_addr", cfg.Metrics.PrometheusAddr, ":9100"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.format", cfg.Logging.Format, "console"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}

	c, err := cfg.Circuit.Build()
	if err != nil {
		t.Fatalf("build circuit: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("circuit has %d components", c.Len())
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.json", `{"circuit":{"components":[{"type":"r"}]}}`))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Simulation.TickSeconds != simulation.DefaultTickSeconds {
		t.Errorf("tick default = %v", cfg.Simulation.TickSeconds)
	}
	if cfg.Simulation.IntervalMS != simulation.DefaultIntervalMS {
		t.Errorf("interval default = %v", cfg.Simulation.IntervalMS)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging default = %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("K_SIMULATION__MAX_TICKS", "42")
	cfg, err := Load(writeFile(t, "config.yaml", "simulation:\n  max_ticks: 1\n"))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Simulation.MaxTicks != 42 {
		t.Fatalf("max_ticks = %d", cfg.Simulation.MaxTicks)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"bad tick":      "simulation:\n  tick_seconds: -1\n",
		"bad component": "circuit:\n  components:\n    - type: inductor\n",
		"bad number":    "circuit:\n  components:\n    - type: resistor\n      resistance: 10 bananas\n",
		"bad sink":      "metrics:\n  sinks:\n    - conf: {}\n",
		"bad level":     "logging:\n  level: loud\n",
	}
	for name, data := range cases {
		if _, err := Load(writeFile(t, "config.yaml", data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := Load(writeFile(t, "config.toml", "")); err == nil {
		t.Errorf("expected unsupported format error")
	}
}
