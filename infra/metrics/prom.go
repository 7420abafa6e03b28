package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/elcircuit/core/metrics"
	"github.com/kilianp07/elcircuit/core/model"
)

// PromSink exposes the latest simulation snapshot as Prometheus metrics.
type PromSink struct {
	current     *prometheus.GaugeVec
	equivalents *prometheus.GaugeVec
	voltage     *prometheus.GaugeVec
	charge      *prometheus.GaugeVec
	elapsed     prometheus.Gauge
	ticks       prometheus.Counter
	transitions *prometheus.CounterVec

	mu    sync.Mutex
	known map[string]string
}

// NewPromSink registers circuit metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately, see StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{known: make(map[string]string)}
	var err error
	if s.current, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_current_amperes",
		Help: "Branch current of the series circuit",
	}, nil)); err != nil {
		return nil, err
	}
	if s.equivalents, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_equivalent",
		Help: "Equivalent EMF (V), resistance (ohm) and capacitance (F) of the circuit",
	}, []string{"quantity"})); err != nil {
		return nil, err
	}
	if s.voltage, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_component_voltage_volts",
		Help: "Voltage across a component",
	}, []string{"component_id", "kind"})); err != nil {
		return nil, err
	}
	if s.charge, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_capacitor_charge_coulombs",
		Help: "Charge stored on a capacitor",
	}, []string{"component_id", "kind"})); err != nil {
		return nil, err
	}
	if s.elapsed, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_elapsed_seconds",
		Help: "Simulated time since the run started",
	})); err != nil {
		return nil, err
	}
	if s.ticks, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "circuit_ticks_total",
		Help: "Number of completed simulation ticks",
	})); err != nil {
		return nil, err
	}
	if s.transitions, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "circuit_transitions_total",
		Help: "Run state transitions",
	}, []string{"from", "to"})); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing the collector already registered under the
// same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// RecordSnapshot updates every gauge from s. Undefined values remove the
// corresponding series so that scrapes never report a made-up zero.
func (p *PromSink) RecordSnapshot(s model.Snapshot) error {
	setVec(p.current, s.Current)
	setVec(p.equivalents, s.EquivalentEMF, "emf")
	setVec(p.equivalents, s.EquivalentResistance, "resistance")
	setVec(p.equivalents, s.EquivalentCapacitance, "capacitance")
	p.elapsed.Set(s.Elapsed)
	p.ticks.Inc()

	p.mu.Lock()
	defer p.mu.Unlock()
	seen := make(map[string]struct{}, len(s.Components))
	for _, r := range s.Components {
		kind := r.Kind.String()
		seen[r.ID] = struct{}{}
		p.known[r.ID] = kind
		setVec(p.voltage, r.Voltage, r.ID, kind)
		if r.Kind == model.KindCapacitor {
			setVec(p.charge, r.Charge, r.ID, kind)
		}
	}
	for id, kind := range p.known {
		if _, ok := seen[id]; ok {
			continue
		}
		p.voltage.DeleteLabelValues(id, kind)
		p.charge.DeleteLabelValues(id, kind)
		delete(p.known, id)
	}
	return nil
}

// RecordTransition counts a run state change.
func (p *PromSink) RecordTransition(ev model.TransitionEvent) error {
	p.transitions.WithLabelValues(ev.From.String(), ev.To.String()).Inc()
	return nil
}

func setVec(g *prometheus.GaugeVec, v model.Value, labels ...string) {
	x, ok := v.Get()
	if !ok {
		g.DeleteLabelValues(labels...)
		return
	}
	g.WithLabelValues(labels...).Set(x)
}

var _ coremetrics.MetricsSink = (*PromSink)(nil)
var _ coremetrics.TransitionRecorder = (*PromSink)(nil)
