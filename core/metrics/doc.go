// Package metrics defines the sinks that record calculation activity.
// Sinks like PromSink and InfluxSink (see infra/metrics) implement
// MetricsSink and, optionally, the recorder interfaces for phases and the
// weekly financial series. NewMetricsSink builds a MultiSink automatically
// when several sinks are configured.
package metrics
