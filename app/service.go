package app

import (
	"context"
	"fmt"

	"github.com/kilianp07/elcircuit/config"
	"github.com/kilianp07/elcircuit/core/factory"
	coremetrics "github.com/kilianp07/elcircuit/core/metrics"
	"github.com/kilianp07/elcircuit/core/simulation"
	"github.com/kilianp07/elcircuit/infra/logger"
	"github.com/kilianp07/elcircuit/infra/metrics"
	"github.com/kilianp07/elcircuit/infra/mqtt"
)

// Feed buffers sized so that a slow sink falls behind by a few seconds of
// simulated ticks before snapshots are dropped.
const (
	snapshotBuffer   = 256
	transitionBuffer = 16
)

type controlListener interface {
	ListenControl(mqtt.Controller) error
}

// Service wires a simulator to its metrics sinks and serves Prometheus
// metrics when configured.
type Service struct {
	Simulator *simulation.Simulator
	sink      coremetrics.MetricsSink
	log       logger.Logger
	promAddr  string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	c, err := cfg.Circuit.Build()
	if err != nil {
		return nil, fmt.Errorf("circuit: %w", err)
	}
	sim, err := simulation.New(cfg.Simulation, c, logger.New("simulation"))
	if err != nil {
		return nil, err
	}

	sinks := cfg.Metrics.Sinks
	if cfg.Metrics.PrometheusAddr != "" && !hasSink(sinks, "prometheus") {
		sinks = append(append([]factory.ModuleConfig(nil), sinks...), factory.ModuleConfig{Type: "prometheus"})
	}
	sink, err := coremetrics.NewMetricsSink(sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	svc := &Service{Simulator: sim, sink: sink, log: logg, promAddr: cfg.Metrics.PrometheusAddr}
	for _, s := range flatten(sink) {
		if l, ok := s.(controlListener); ok {
			if err := l.ListenControl(sim); err != nil {
				_ = svc.Close()
				return nil, fmt.Errorf("control: %w", err)
			}
		}
	}
	logg.Infof("circuit loaded with %d components", c.Len())
	return svc, nil
}

func hasSink(cfgs []factory.ModuleConfig, typ string) bool {
	for _, c := range cfgs {
		if c.Type == typ {
			return true
		}
	}
	return false
}

func flatten(s coremetrics.MetricsSink) []coremetrics.MetricsSink {
	if m, ok := s.(*coremetrics.MultiSink); ok {
		return m.Sinks
	}
	return []coremetrics.MetricsSink{s}
}

// Run starts the simulation and blocks until the context is cancelled or the
// configured number of ticks has elapsed. Every snapshot produced before
// Run returns has been handed to the sinks.
func (s *Service) Run(ctx context.Context) error {
	collectCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := metrics.StartEventCollector(collectCtx,
		s.Simulator.Snapshots().Subscribe(snapshotBuffer),
		s.Simulator.Transitions().Subscribe(transitionBuffer),
		s.sink, s.log)

	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	s.Simulator.Start()
	err := s.Simulator.Run(ctx)
	s.Simulator.Close()
	wg.Wait()

	snap := s.Simulator.Snapshot()
	s.log.Infof("simulation stopped at %.3f s after %d ticks", snap.Elapsed, snap.Tick)
	return err
}

// Close releases resources held by the sinks.
func (s *Service) Close() error {
	if c, ok := s.sink.(coremetrics.Closer); ok {
		return c.Close()
	}
	return nil
}
