package mqtt

import (
	"fmt"

	"github.com/kilianp07/elcircuit/core/factory"
	coremetrics "github.com/kilianp07/elcircuit/core/metrics"
)

func init() {
	_ = coremetrics.RegisterMetricsSink("mqtt", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		pub, err := NewPublisher(c)
		if err != nil {
			return nil, fmt.Errorf("mqtt sink: %w", err)
		}
		return pub, nil
	})
}
