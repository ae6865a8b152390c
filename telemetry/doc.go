// Package telemetry records workflow runs as OpenTelemetry spans and step executions
// as Prometheus metrics.
//
// Both are optional: a nil tracer or a nil *Metrics turns the corresponding calls into
// no-ops, so workflows can call them unconditionally.
package telemetry
