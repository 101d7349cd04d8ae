// Package otel bridges goJWE engine metrics to an OpenTelemetry meter.
//
// Counters become Int64ObservableCounters with the same names as the
// Prometheus exporter. Each latency histogram becomes a cumulative
// <name>_bucket gauge with an "le" attribute per bound plus a <name>_count
// gauge. All values are read from one snapshot per collection.
package otel
