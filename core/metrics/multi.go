package metrics

import (
	"errors"
	"io"
)

// MultiSink fans records out to multiple sinks. Optional recorders are
// forwarded only to the sinks implementing them.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCalculation forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordCalculation(ev CalculationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordCalculation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordPhase forwards phase timings.
func (m *MultiSink) RecordPhase(p PhaseTiming) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(PhaseRecorder); ok {
			if err := rec.RecordPhase(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFinancialSeries forwards the weekly series.
func (m *MultiSink) RecordFinancialSeries(fs FinancialSeries) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(FinancialSeriesRecorder); ok {
			if err := rec.RecordFinancialSeries(fs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordScenario forwards scenario events.
func (m *MultiSink) RecordScenario(ev ScenarioEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ScenarioRecorder); ok {
			if err := rec.RecordScenario(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink implementing io.Closer.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
