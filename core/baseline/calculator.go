// Package baseline runs the full baseline calculation: validation, calendar
// mapping, scheduling and financial aggregation. It is the entry point used
// by the CLI and the HTTP API.
package baseline

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/linebalance/core/calendar"
	"github.com/kilianp07/linebalance/core/events"
	"github.com/kilianp07/linebalance/core/finance"
	"github.com/kilianp07/linebalance/core/logger"
	"github.com/kilianp07/linebalance/core/metrics"
	"github.com/kilianp07/linebalance/core/model"
	"github.com/kilianp07/linebalance/core/scheduler"
	"github.com/kilianp07/linebalance/internal/eventbus"
)

// ErrInvalidProjectData is returned by Calculate for input that fails
// validation. The returned error also wraps the first *model.ValidationError.
var ErrInvalidProjectData = errors.New("invalid project data")

// Calculator produces CalculationResults. It keeps no state between calls
// and may be shared by concurrent callers.
type Calculator struct {
	cfg     scheduler.Config
	sched   *scheduler.Scheduler
	mapper  calendar.Mapper
	metrics metrics.MetricsSink
	bus     eventbus.Publisher[events.PhaseEvent]
	log     logger.Logger

	// Now and NewID can be replaced to make results reproducible.
	Now   func() time.Time
	NewID func() string
}

// NewCalculator creates a Calculator. sink, bus and log may be nil.
func NewCalculator(cfg scheduler.Config, sink metrics.MetricsSink, bus eventbus.Publisher[events.PhaseEvent], log logger.Logger) *Calculator {
	cfg.SetDefaults()
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Calculator{
		cfg:     cfg,
		sched:   scheduler.New(cfg),
		mapper:  calendar.Mapper{MinWeeks: cfg.MinEstimatedWeeks, Multiplier: cfg.EstimationMultiplier, MaxWeeks: cfg.MaxHorizonWeeks},
		metrics: sink,
		bus:     bus,
		log:     logger.OrNop(log),
		Now:     time.Now,
		NewID:   uuid.NewString,
	}
}

// Config returns the engine limits in use.
func (c *Calculator) Config() scheduler.Config { return c.cfg }

// Validate lists every violated input rule as a readable message. An empty
// slice means Calculate will accept p.
func (c *Calculator) Validate(p model.ProjectData) []string {
	return model.ValidationMessages(p, c.cfg.MaxHouses)
}

// Calculate validates p and computes its baseline.
func (c *Calculator) Calculate(p model.ProjectData) (*model.CalculationResult, error) {
	started := c.Now()
	id := c.NewID()
	c.phase(id, events.PhaseInitialization, started)

	if errs := model.Validate(p, c.cfg.MaxHouses); len(errs) > 0 {
		err := fmt.Errorf("%w: %w", ErrInvalidProjectData, errs[0])
		c.log.Warnf("calculation %s rejected: %d validation errors, first: %v", id, len(errs), errs[0])
		c.record(metrics.CalculationEvent{
			CalculationID: id,
			Houses:        p.HousesCount,
			Packages:      len(p.WorkPackages),
			Elapsed:       c.Now().Sub(started),
			Err:           err.Error(),
			Time:          started,
		})
		return nil, err
	}
	start, _ := model.ParseStartDate(p.StartDate)

	c.phase(id, events.PhaseCalendar, started)
	weeks := c.mapper.Map(start, p.HousesCount, p.WorkPackages)
	if unknown := calendar.NewResolver(p.StopPeriods, p.PartialReductionPeriods).Unknown(); len(unknown) > 0 {
		c.log.Warnf("calculation %s: unrecognised exception months ignored: %s", id, strings.Join(unknown, ", "))
	}

	c.phase(id, events.PhaseMatrix, started)
	sched := c.sched.Run(p, weeks)
	if !sched.Complete {
		c.log.Warnf("calculation %s: schedule truncated after %d weeks", id, sched.WeeksSimulated)
	}

	c.phase(id, events.PhaseFinancial, started)
	series := finance.Aggregate(sched.Matrix, weeks, p.WorkPackages)
	if sched.Complete {
		if got, want := finance.MatrixCost(sched.Matrix), finance.DeclaredCost(p.WorkPackages); math.Abs(got-want) > costTolerance(want) {
			c.log.Warnf("calculation %s: scheduled cost %.2f differs from declared cost %.2f", id, got, want)
		}
	}

	c.phase(id, events.PhaseFinalization, started)
	res := &model.CalculationResult{
		Matrix:           sched.Matrix,
		Weeks:            make([]string, sched.TotalWeeks),
		Houses:           make([]int, p.HousesCount),
		WeekDateMappings: weeks,
		FinancialData:    series,
		Metadata: model.CalculationMetadata{
			CalculationID:        id,
			TotalProjectDuration: sched.TotalWeeks,
			TotalPackages:        len(p.WorkPackages),
			ReductionPeriods:     len(p.StopPeriods) + len(p.PartialReductionPeriods),
			TotalProjectCost:     finance.TotalCost(series),
			CalculatedAt:         started.UTC(),
			BaseDate:             p.StartDate,
			Complete:             sched.Complete,
		},
	}
	for i := range res.Weeks {
		res.Weeks[i] = model.WeekLabel(i)
	}
	for i := range res.Houses {
		res.Houses[i] = i + 1
	}

	elapsed := c.Now().Sub(started)
	c.log.Infof("calculation %s: %d houses, %d packages, %d weeks, cost %.2f in %s",
		id, p.HousesCount, len(p.WorkPackages), sched.TotalWeeks, res.Metadata.TotalProjectCost, elapsed)
	c.record(metrics.CalculationEvent{
		CalculationID: id,
		Houses:        p.HousesCount,
		Packages:      len(p.WorkPackages),
		TotalWeeks:    sched.TotalWeeks,
		TotalCost:     res.Metadata.TotalProjectCost,
		Elapsed:       elapsed,
		Complete:      sched.Complete,
		Time:          started,
	})
	if rec, ok := c.metrics.(metrics.FinancialSeriesRecorder); ok {
		if err := rec.RecordFinancialSeries(metrics.FinancialSeries{CalculationID: id, Weeks: weeks, Series: series[:min(len(series), sched.TotalWeeks)]}); err != nil {
			c.log.Errorf("financial series metrics error: %v", err)
		}
	}
	return res, nil
}

// costTolerance is the accepted drift between scheduled and declared cost.
func costTolerance(declared float64) float64 {
	return max(0.01, declared*1e-9)
}

func (c *Calculator) phase(id string, p events.Phase, started time.Time) {
	now := c.Now()
	c.log.Debugw("calculation phase", map[string]any{"calculation_id": id, "phase": p.String(), "progress": p.Progress()})
	if c.bus != nil {
		c.bus.Publish(events.PhaseEvent{CalculationID: id, Phase: p, Elapsed: now.Sub(started), Time: now})
	}
}

func (c *Calculator) record(ev metrics.CalculationEvent) {
	if err := c.metrics.RecordCalculation(ev); err != nil {
		c.log.Errorf("calculation metrics error: %v", err)
	}
}
