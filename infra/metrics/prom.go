package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/linebalance/core/metrics"
)

// PromSink records calculations in Prometheus metrics.
type PromSink struct {
	calculations *prometheus.CounterVec
	duration     prometheus.Histogram
	weeks        prometheus.Gauge
	cost         prometheus.Gauge
	phases       *prometheus.HistogramVec
	scenarios    *prometheus.CounterVec
}

// NewPromSink registers calculation metrics on the default Prometheus registerer.
// The /metrics server is started separately with StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "linebalance_calculations_total",
		Help: "Total number of baseline calculations by outcome",
	}, []string{"status"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "linebalance_calculation_duration_seconds",
		Help:    "Wall time of a baseline calculation",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})
	weeks := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "linebalance_schedule_weeks",
		Help: "Total weeks of the last calculated schedule",
	})
	cost := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "linebalance_project_cost",
		Help: "Total cost of the last calculated schedule",
	})
	phases := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linebalance_phase_elapsed_seconds",
		Help:    "Time from calculation start to each phase",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"phase"})
	scenarios := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "linebalance_scenario_operations_total",
		Help: "Scenario store operations by action",
	}, []string{"action"})

	var err error
	if calculations, err = register(reg, calculations); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if weeks, err = register(reg, weeks); err != nil {
		return nil, err
	}
	if cost, err = register(reg, cost); err != nil {
		return nil, err
	}
	if phases, err = register(reg, phases); err != nil {
		return nil, err
	}
	if scenarios, err = register(reg, scenarios); err != nil {
		return nil, err
	}
	return &PromSink{
		calculations: calculations,
		duration:     duration,
		weeks:        weeks,
		cost:         cost,
		phases:       phases,
		scenarios:    scenarios,
	}, nil
}

// register returns the already registered collector when c was registered
// before, so several sinks can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordCalculation counts the calculation and, on success, publishes its size.
func (s *PromSink) RecordCalculation(ev coremetrics.CalculationEvent) error {
	status := ev.Status()
	s.calculations.WithLabelValues(status).Inc()
	s.duration.Observe(ev.Elapsed.Seconds())
	if status != "error" {
		s.weeks.Set(float64(ev.TotalWeeks))
		s.cost.Set(ev.TotalCost)
	}
	return nil
}

// RecordPhase observes the time taken to reach a phase.
func (s *PromSink) RecordPhase(p coremetrics.PhaseTiming) error {
	s.phases.WithLabelValues(p.Phase).Observe(p.Elapsed.Seconds())
	return nil
}

// RecordScenario counts scenario store operations.
func (s *PromSink) RecordScenario(ev coremetrics.ScenarioEvent) error {
	s.scenarios.WithLabelValues(ev.Action).Inc()
	return nil
}
