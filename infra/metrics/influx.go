package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/elcircuit/core/metrics"
	"github.com/kilianp07/elcircuit/core/model"
	"github.com/kilianp07/elcircuit/infra/logger"
)

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes simulation samples to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSnapshot writes one circuit_sample point for the branch and one
// component_sample point per component. Undefined values are left out of
// the field set.
func (s *InfluxSink) RecordSnapshot(snap model.Snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(snap.Components)+1)
	p := write.NewPointWithMeasurement("circuit_sample").
		AddTag("state", snap.State.String()).
		AddField("tick", snap.Tick).
		AddField("elapsed_s", round6(snap.Elapsed)).
		SetTime(snap.Time)
	addField(p, "current_a", snap.Current)
	addField(p, "emf_v", snap.EquivalentEMF)
	addField(p, "resistance_ohm", snap.EquivalentResistance)
	addField(p, "capacitance_f", snap.EquivalentCapacitance)
	points = append(points, p)
	for _, r := range snap.Components {
		cp := write.NewPointWithMeasurement("component_sample").
			AddTag("component_id", r.ID).
			AddTag("kind", r.Kind.String()).
			AddField("tick", snap.Tick).
			SetTime(snap.Time)
		addField(cp, "voltage_v", r.Voltage)
		addField(cp, "charge_c", r.Charge)
		addField(cp, "current_a", r.Current)
		points = append(points, cp)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordTransition writes a run state change.
func (s *InfluxSink) RecordTransition(ev model.TransitionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("run_transition").
		AddTag("from", ev.From.String()).
		AddTag("to", ev.To.String()).
		AddField("elapsed_s", round6(ev.Elapsed)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func addField(p *write.Point, name string, v model.Value) {
	if x, ok := v.Get(); ok {
		p.AddField(name, x)
	}
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
