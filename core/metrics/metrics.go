package metrics

import (
	"time"

	"github.com/kilianp07/linebalance/core/model"
)

// CalculationEvent summarises one baseline calculation.
type CalculationEvent struct {
	CalculationID string
	Houses        int
	Packages      int
	TotalWeeks    int
	TotalCost     float64
	Elapsed       time.Duration
	Complete      bool
	// Err holds the failure message of a rejected calculation.
	Err  string
	Time time.Time
}

// Status labels the outcome of the calculation.
func (e CalculationEvent) Status() string {
	switch {
	case e.Err != "":
		return "error"
	case !e.Complete:
		return "truncated"
	default:
		return "ok"
	}
}

// MetricsSink records calculations for observability purposes.
type MetricsSink interface {
	RecordCalculation(ev CalculationEvent) error
}

// PhaseTiming is the time a calculation took to reach a phase.
type PhaseTiming struct {
	CalculationID string
	Phase         string
	Elapsed       time.Duration
	Time          time.Time
}

// PhaseRecorder records calculation phase timings.
type PhaseRecorder interface {
	RecordPhase(p PhaseTiming) error
}

// FinancialSeries is the weekly cost curve of a calculation.
type FinancialSeries struct {
	CalculationID string
	Weeks         []model.WeekDateMapping
	Series        []model.FinancialWeekData
}

// FinancialSeriesRecorder records the weekly financial series.
type FinancialSeriesRecorder interface {
	RecordFinancialSeries(fs FinancialSeries) error
}

// ScenarioEvent captures a change to the scenario store.
type ScenarioEvent struct {
	ScenarioID string
	Action     string
	Time       time.Time
}

// ScenarioRecorder records scenario store operations.
type ScenarioRecorder interface {
	RecordScenario(ev ScenarioEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordCalculation(CalculationEvent) error    { return nil }
func (NopSink) RecordPhase(PhaseTiming) error               { return nil }
func (NopSink) RecordFinancialSeries(FinancialSeries) error { return nil }
func (NopSink) RecordScenario(ScenarioEvent) error          { return nil }
