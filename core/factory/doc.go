// Package factory provides a small generic registry used to instantiate
// pluggable modules, such as metrics sinks, from configuration. A module is
// described by a type string and a map of raw settings; factories decode the
// settings into typed structs and return the concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[metrics.MetricsSink]()
//	reg.Register("stdout", func(conf map[string]any) (metrics.MetricsSink, error) {
//	    var c struct{ Every int `json:"every"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newStdoutSink(c.Every), nil
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "stdout", Conf: map[string]any{"every": 10}})
package factory
