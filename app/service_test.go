package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/elcircuit/config"
	"github.com/kilianp07/elcircuit/core/circuit"
	"github.com/kilianp07/elcircuit/core/factory"
	coremetrics "github.com/kilianp07/elcircuit/core/metrics"
	"github.com/kilianp07/elcircuit/core/model"
	"github.com/kilianp07/elcircuit/core/simulation"
	"github.com/kilianp07/elcircuit/infra/mqtt"
)

type captureSink struct {
	mu          sync.Mutex
	ticks       []int64
	transitions []model.TransitionEvent
	closed      bool
}

func (c *captureSink) RecordSnapshot(s model.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = append(c.ticks, s.Tick)
	return nil
}

func (c *captureSink) RecordTransition(ev model.TransitionEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitions = append(c.transitions, ev)
	return nil
}

func (c *captureSink) Close() error {
	c.closed = true
	return nil
}

var capture = &captureSink{}

// refusingSink rejects control subscriptions, like an MQTT publisher whose
// broker drops the subscribe.
type refusingSink struct {
	coremetrics.NopSink
	closed bool
}

func (r *refusingSink) ListenControl(mqtt.Controller) error {
	return errors.New("subscribe refused")
}

func (r *refusingSink) Close() error {
	r.closed = true
	return nil
}

var refusing = &refusingSink{}

func init() {
	_ = coremetrics.RegisterMetricsSink("capture", func(map[string]any) (coremetrics.MetricsSink, error) {
		return capture, nil
	})
	_ = coremetrics.RegisterMetricsSink("refusing", func(map[string]any) (coremetrics.MetricsSink, error) {
		return refusing, nil
	})
}

func testConfig() *config.Config {
	cfg := &config.Config{
		Simulation: simulation.Config{IntervalMS: 1, MaxTicks: 5},
		Circuit: circuit.Definition{Components: []circuit.ComponentDef{
			{ID: "b1", Type: "battery", EMF: "10"},
			{ID: "r1", Type: "resistor", Resistance: "1k"},
			{ID: "c1", Type: "capacitor", Capacitance: "1m"},
		}},
		Metrics: coremetrics.Config{Sinks: []factory.ModuleConfig{{Type: "capture"}, {Type: "nop"}}},
	}
	cfg.SetDefaults()
	return cfg
}

func TestServiceRunDeliversEveryTick(t *testing.T) {
	svc, err := New(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, svc.Run(ctx))
	require.NoError(t, svc.Close())

	capture.mu.Lock()
	defer capture.mu.Unlock()
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, capture.ticks)
	require.NotEmpty(t, capture.transitions)
	assert.Equal(t, model.StateRunning, capture.transitions[0].To)
	assert.True(t, capture.closed)

	snap := svc.Simulator.Snapshot()
	assert.InDelta(t, 0.5, snap.Elapsed, 1e-9)
	assert.True(t, snap.Current.IsDefined())
}

func TestServiceRejectsBadSink(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "does-not-exist"}}
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestServiceClosesSinksWhenControlFails(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "nop"}, {Type: "refusing"}}
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscribe refused")
	assert.True(t, refusing.closed)
}

func TestServiceRejectsBadCircuit(t *testing.T) {
	cfg := testConfig()
	cfg.Circuit.Components = append(cfg.Circuit.Components, circuit.ComponentDef{ID: "b1", Type: "battery"})
	_, err := New(cfg)
	assert.ErrorIs(t, err, circuit.ErrDuplicateID)
}
