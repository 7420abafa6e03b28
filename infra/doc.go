// Package infra holds the technical adapters of elcircuit: the zerolog
// logger, the Prometheus and InfluxDB exporters and the MQTT publisher.
// These packages depend only on the interfaces defined in the core packages.
package infra
