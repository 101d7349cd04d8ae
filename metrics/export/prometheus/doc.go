// Package prometheus exposes goJWE engine metrics through client_golang.
//
// [Exporter] is a [prometheus.Collector] that reads an engine snapshot on
// every scrape. [Exporter.Handler] serves it from a private registry, so
// nothing is ever registered globally; callers that already run a registry
// can Register the exporter themselves.
package prometheus
